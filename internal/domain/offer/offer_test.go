package offer

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajar-homes/service-booking/internal/domain"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newPercentOffer(t *testing.T, value int64) *Offer {
	t.Helper()
	o, err := NewOffer(nil, "summer10", "", DiscountTypePercentage, value, day(2024, 5, 1), day(2024, 8, 31), 0, testNow)
	require.NoError(t, err)
	return o
}

func TestNewOffer_UppercasesCode(t *testing.T) {
	o := newPercentOffer(t, 10)
	assert.Equal(t, "SUMMER10", o.Code())
	assert.True(t, o.Active())
}

func TestNewOffer_Validation(t *testing.T) {
	_, err := NewOffer(nil, "", "", DiscountTypePercentage, 10, day(2024, 5, 1), day(2024, 8, 31), 0, testNow)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewOffer(nil, "X", "", DiscountType("bogus"), 10, day(2024, 5, 1), day(2024, 8, 31), 0, testNow)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewOffer(nil, "X", "", DiscountTypePercentage, 101, day(2024, 5, 1), day(2024, 8, 31), 0, testNow)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewOffer(nil, "X", "", DiscountTypeFixedAmount, 0, day(2024, 5, 1), day(2024, 8, 31), 0, testNow)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewOffer(nil, "X", "", DiscountTypePercentage, 10, day(2024, 8, 31), day(2024, 5, 1), 0, testNow)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestIsValid_Window(t *testing.T) {
	o := newPercentOffer(t, 10)

	assert.True(t, o.IsValid(day(2024, 5, 1)))
	// Inclusive on both ends at date granularity.
	assert.True(t, o.IsValid(day(2024, 8, 31)))
	assert.False(t, o.IsValid(day(2024, 4, 30)))
	assert.False(t, o.IsValid(day(2024, 9, 1)))
}

func TestIsValid_Inactive(t *testing.T) {
	o := newPercentOffer(t, 10)
	o.Deactivate(testNow)
	assert.False(t, o.IsValid(day(2024, 6, 1)))
}

func TestIsValid_UsageLimit(t *testing.T) {
	o, err := NewOffer(nil, "LIMITED", "", DiscountTypePercentage, 10, day(2024, 5, 1), day(2024, 8, 31), 2, testNow)
	require.NoError(t, err)

	assert.True(t, o.IsValid(day(2024, 6, 1)))
	o.IncrementUses(testNow)
	o.IncrementUses(testNow)
	assert.False(t, o.IsValid(day(2024, 6, 1)))
}

func TestCalculateDiscount_Percentage(t *testing.T) {
	o := newPercentOffer(t, 10)
	// 5 nights at 100 cents: 10% of 500 is 50.
	assert.Equal(t, int64(50), o.CalculateDiscount(500))
}

func TestCalculateDiscount_FixedCapped(t *testing.T) {
	o, err := NewOffer(nil, "BIGFIX", "", DiscountTypeFixedAmount, 1000, day(2024, 5, 1), day(2024, 8, 31), 0, testNow)
	require.NoError(t, err)

	// Discount larger than the price caps at the price; total floors at zero.
	assert.Equal(t, int64(500), o.CalculateDiscount(500))
	assert.Equal(t, int64(1000), o.CalculateDiscount(2500))
}

func TestPropertyScope(t *testing.T) {
	propID := uuid.New()
	o, err := NewOffer(&propID, "local5", "", DiscountTypePercentage, 5, day(2024, 5, 1), day(2024, 8, 31), 0, testNow)
	require.NoError(t, err)

	require.NotNil(t, o.PropertyID())
	assert.Equal(t, propID, *o.PropertyID())
}

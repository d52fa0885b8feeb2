package pricing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajar-homes/service-booking/internal/domain"
	"github.com/ajar-homes/service-booking/internal/domain/offer"
	"github.com/ajar-homes/service-booking/internal/domain/property"
)

var testNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fakeOfferRepo resolves codes from an in-memory map, ignoring scope.
type fakeOfferRepo struct {
	byCode map[string]*offer.Offer
}

func (f *fakeOfferRepo) Save(context.Context, *offer.Offer) error   { return nil }
func (f *fakeOfferRepo) Update(context.Context, *offer.Offer) error { return nil }
func (f *fakeOfferRepo) FindByID(ctx context.Context, id uuid.UUID) (*offer.Offer, error) {
	return nil, domain.NewNotFoundError("Offer", id.String())
}
func (f *fakeOfferRepo) FindActive(context.Context) ([]*offer.Offer, error) { return nil, nil }

func (f *fakeOfferRepo) FindByCodeForProperty(ctx context.Context, code string, propertyID uuid.UUID) (*offer.Offer, error) {
	if o, ok := f.byCode[strings.ToUpper(code)]; ok {
		return o, nil
	}
	return nil, domain.NewNotFoundError("Offer", code)
}

func testProperty(t *testing.T, nightlyCents int64) *property.Property {
	t.Helper()
	p, err := property.NewProperty(uuid.New(), "Test Flat", "Porto", 2, nightlyCents, testNow)
	require.NoError(t, err)
	return p
}

func testOffer(t *testing.T, code string, dt offer.DiscountType, value int64) *offer.Offer {
	t.Helper()
	o, err := offer.NewOffer(nil, code, "", dt, value, day(2024, 5, 1), day(2024, 8, 31), 0, testNow)
	require.NoError(t, err)
	return o
}

func newCalculator(offers map[string]*offer.Offer) *Calculator {
	return NewCalculator(&fakeOfferRepo{byCode: offers}, domain.FixedClock{T: testNow})
}

func TestPrice_NoOffer(t *testing.T) {
	calc := newCalculator(nil)
	prop := testProperty(t, 100)

	q, err := calc.Price(context.Background(), prop, day(2024, 7, 1), day(2024, 7, 6), "")
	require.NoError(t, err)

	assert.Equal(t, 5, q.Nights)
	assert.Equal(t, int64(500), q.OriginalCents)
	assert.Equal(t, int64(0), q.DiscountCents)
	assert.Equal(t, int64(500), q.TotalCents)
	assert.Nil(t, q.Offer)
}

func TestPrice_PercentageOffer(t *testing.T) {
	calc := newCalculator(map[string]*offer.Offer{
		"SUMMER10": testOffer(t, "SUMMER10", offer.DiscountTypePercentage, 10),
	})
	prop := testProperty(t, 100)

	// Five nights at 100 with a 10% code: 500 original, 50 off, 450 total.
	q, err := calc.Price(context.Background(), prop, day(2024, 7, 1), day(2024, 7, 6), "summer10")
	require.NoError(t, err)

	assert.Equal(t, int64(500), q.OriginalCents)
	assert.Equal(t, int64(50), q.DiscountCents)
	assert.Equal(t, int64(450), q.TotalCents)
	require.NotNil(t, q.Offer)
	assert.Equal(t, "SUMMER10", q.Offer.Code())
}

func TestPrice_FixedOfferFloorsAtZero(t *testing.T) {
	calc := newCalculator(map[string]*offer.Offer{
		"BIG1000": testOffer(t, "BIG1000", offer.DiscountTypeFixedAmount, 1000),
	})
	prop := testProperty(t, 100)

	// Fixed 1000 against a 500 stay: discount caps, total is zero.
	q, err := calc.Price(context.Background(), prop, day(2024, 7, 1), day(2024, 7, 6), "BIG1000")
	require.NoError(t, err)

	assert.Equal(t, int64(500), q.DiscountCents)
	assert.Equal(t, int64(0), q.TotalCents)
}

func TestPrice_UnknownCodeIgnored(t *testing.T) {
	calc := newCalculator(nil)
	prop := testProperty(t, 100)

	q, err := calc.Price(context.Background(), prop, day(2024, 7, 1), day(2024, 7, 3), "NOPE")
	require.NoError(t, err)

	assert.Equal(t, int64(0), q.DiscountCents)
	assert.Nil(t, q.Offer)
}

func TestPrice_ExpiredOfferIgnored(t *testing.T) {
	expired, err := offer.NewOffer(nil, "OLD", "", offer.DiscountTypePercentage, 10, day(2024, 1, 1), day(2024, 1, 31), 0, testNow)
	require.NoError(t, err)
	calc := newCalculator(map[string]*offer.Offer{"OLD": expired})
	prop := testProperty(t, 100)

	q, err := calc.Price(context.Background(), prop, day(2024, 7, 1), day(2024, 7, 3), "OLD")
	require.NoError(t, err)

	assert.Equal(t, int64(0), q.DiscountCents)
	assert.Nil(t, q.Offer)
}

func TestPrice_InvalidRange(t *testing.T) {
	calc := newCalculator(nil)
	prop := testProperty(t, 100)

	_, err := calc.Price(context.Background(), prop, day(2024, 7, 6), day(2024, 7, 6), "")
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = calc.Price(context.Background(), prop, day(2024, 7, 6), day(2024, 7, 1), "")
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

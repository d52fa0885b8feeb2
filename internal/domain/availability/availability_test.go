package availability

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEntry_IsBookable(t *testing.T) {
	now := day(2024, 6, 1)
	bookingID := uuid.New()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{"plain available", Entry{IsAvailable: true}, true},
		{"unavailable", Entry{IsAvailable: false}, false},
		{"blocked by booking", Entry{IsAvailable: true, BlockedByBookingID: &bookingID}, false},
		{"blocked by owner", Entry{IsAvailable: true, BlockedByOwner: true}, false},
		{"live hold", Entry{IsAvailable: true, IsTentative: true, HoldExpiry: &future}, false},
		{"expired hold", Entry{IsAvailable: true, IsTentative: true, HoldExpiry: &past}, true},
		{"tentative without expiry", Entry{IsAvailable: true, IsTentative: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.IsBookable(now))
		})
	}
}

func TestDatesIn(t *testing.T) {
	dates := DatesIn(day(2024, 6, 1), day(2024, 6, 5))

	// Half-open: checkout day is not part of the stay.
	assert.Len(t, dates, 4)
	assert.Equal(t, day(2024, 6, 1), dates[0])
	assert.Equal(t, day(2024, 6, 4), dates[3])
}

func TestDatesIn_Empty(t *testing.T) {
	assert.Empty(t, DatesIn(day(2024, 6, 5), day(2024, 6, 5)))
	assert.Empty(t, DatesIn(day(2024, 6, 5), day(2024, 6, 1)))
}

func TestDatesIn_CrossesMonthBoundary(t *testing.T) {
	dates := DatesIn(day(2024, 6, 29), day(2024, 7, 2))

	assert.Len(t, dates, 3)
	assert.Equal(t, day(2024, 6, 30), dates[1])
	assert.Equal(t, day(2024, 7, 1), dates[2])
}

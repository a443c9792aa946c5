package booking

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	ErrInvalidSlotFormat = errors.New("time slot must be formatted as HH:MM-HH:MM")
	ErrSlotEndNotAfter   = errors.New("time slot end must be after start")
	ErrZeroDate          = errors.New("date of use is required")
)

var slotPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]-([01][0-9]|2[0-3]):[0-5][0-9]$`)

// UseSlot identifies when a booking occupies its vehicle: a calendar date
// plus a named window within that date (e.g. "09:00-12:00"). Conflict
// detection compares slots by equality, not by interval overlap.
type UseSlot struct {
	dateOfUse time.Time
	timeSlot  string
}

func NewUseSlot(dateOfUse time.Time, timeSlot string) (UseSlot, error) {
	if dateOfUse.IsZero() {
		return UseSlot{}, ErrZeroDate
	}
	if !slotPattern.MatchString(timeSlot) {
		return UseSlot{}, ErrInvalidSlotFormat
	}
	start, end := timeSlot[:5], timeSlot[6:]
	if end <= start {
		return UseSlot{}, ErrSlotEndNotAfter
	}

	y, m, d := dateOfUse.Date()
	return UseSlot{
		dateOfUse: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		timeSlot:  timeSlot,
	}, nil
}

// ReconstructUseSlot rebuilds a slot from stored values without
// re-validating them.
func ReconstructUseSlot(dateOfUse time.Time, timeSlot string) UseSlot {
	return UseSlot{dateOfUse: dateOfUse, timeSlot: timeSlot}
}

func (s UseSlot) DateOfUse() time.Time {
	return s.dateOfUse
}

func (s UseSlot) TimeSlot() string {
	return s.timeSlot
}

// Same reports whether two bookings would claim the identical window on the
// same day.
func (s UseSlot) Same(other UseSlot) bool {
	return s.dateOfUse.Equal(other.dateOfUse) && s.timeSlot == other.timeSlot
}

func (s UseSlot) String() string {
	return fmt.Sprintf("%s %s", s.dateOfUse.Format("2006-01-02"), s.timeSlot)
}

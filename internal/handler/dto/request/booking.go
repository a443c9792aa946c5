package request

import "time"

type CreateBookingRequest struct {
	DateOfUse string `json:"date_of_use" binding:"required"`
	TimeSlot  string `json:"time_slot" binding:"required"`
}

func (r CreateBookingRequest) ParseDateOfUse() (time.Time, error) {
	return time.Parse("2006-01-02", r.DateOfUse)
}

package item

type Status string

const (
	StatusAvailable          Status = "available"
	StatusPartiallyAvailable Status = "partially_available"
	StatusCheckedOut         Status = "checked_out"
	StatusPendingCheckIn     Status = "pending_check_in"
	StatusUnderRepair        Status = "under_repair"
	StatusRetired            Status = "retired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusPartiallyAvailable, StatusCheckedOut,
		StatusPendingCheckIn, StatusUnderRepair, StatusRetired:
		return true
	default:
		return false
	}
}

// IsAdministrative reports whether the status is set only by explicit
// administrative action. Project never produces these and the reconciler
// must not override them.
func (s Status) IsAdministrative() bool {
	return s == StatusUnderRepair || s == StatusRetired
}

// Project derives the display status from the trusted counters. The stored
// status column is a denormalization of this function's result; it is never
// set independently except for the administrative states.
func Project(quantityAvailable, quantityTotal int32, hasPendingCheckIn bool) Status {
	switch {
	case quantityTotal > 0 && quantityAvailable == 0:
		return StatusCheckedOut
	case quantityAvailable > 0 && quantityAvailable < quantityTotal:
		return StatusPartiallyAvailable
	default:
		if hasPendingCheckIn {
			return StatusPendingCheckIn
		}
		return StatusAvailable
	}
}

package bookings

import (
	"fmt"

	"github.com/angelmondragon/repairshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/repairshop-backend/pkg/errors"
)

var allowedTransitions = map[enums.BookingStatus][]enums.BookingStatus{
	enums.BookingStatusPending: {
		enums.BookingStatusConfirmed,
		enums.BookingStatusInProgress,
		enums.BookingStatusCompleted,
		enums.BookingStatusCancelled,
	},
	enums.BookingStatusConfirmed: {
		enums.BookingStatusInProgress,
		enums.BookingStatusCompleted,
		enums.BookingStatusCancelled,
	},
	enums.BookingStatusInProgress: {
		enums.BookingStatusCompleted,
		enums.BookingStatusCancelled,
	},
}

// canTransition reports whether an admin may move a booking from current to
// next. Completed and cancelled bookings are final.
func canTransition(current, next enums.BookingStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

func transitionError(current, next enums.BookingStatus) error {
	msg := fmt.Sprintf("cannot move booking from %s to %s", current, next)
	return pkgerrors.New(pkgerrors.CodeStateConflict, msg).
		WithDetails(map[string]string{"status": msg})
}

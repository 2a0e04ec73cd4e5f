package enums

import "fmt"

// NotificationKind selects which confirmation a booking receives.
type NotificationKind string

const (
	NotificationKindBookingConfirmation NotificationKind = "booking_confirmation"
	NotificationKindQuoteConfirmation   NotificationKind = "quote_confirmation"
)

var validNotificationKinds = []NotificationKind{
	NotificationKindBookingConfirmation,
	NotificationKindQuoteConfirmation,
}

// IsValid checks whether the given kind matches the canonical enum.
func (n NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts raw strings into NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}

// NotificationChannel labels the transport that delivered a notification.
type NotificationChannel string

const (
	NotificationChannelLog NotificationChannel = "log"
	NotificationChannelSMS NotificationChannel = "sms"
)

func (c NotificationChannel) String() string {
	return string(c)
}

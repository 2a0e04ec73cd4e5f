package notifications

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/repairshop-backend/pkg/enums"
)

// Message is the confirmation sent after a booking is written.
type Message struct {
	Kind          enums.NotificationKind
	Reference     string
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	ServiceMethod enums.ServiceMethod
	BookingDate   string
	SlotLabel     string
	Total         decimal.Decimal
}

// Body renders the customer-facing text of m.
func (m Message) Body(shopName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s, ", strings.TrimSpace(m.FirstName))
	switch m.Kind {
	case enums.NotificationKindQuoteConfirmation:
		fmt.Fprintf(&b, "we received your quote request %s at %s.", m.Reference, shopName)
	default:
		fmt.Fprintf(&b, "your %s booking %s is confirmed.", shopName, m.Reference)
	}
	if m.ServiceMethod == enums.ServiceMethodLocation && m.BookingDate != "" {
		fmt.Fprintf(&b, " See you on %s, %s.", m.BookingDate, m.SlotLabel)
	}
	if m.ServiceMethod == enums.ServiceMethodPickup {
		b.WriteString(" We will contact you to arrange pickup.")
	}
	fmt.Fprintf(&b, " Total: $%s.", m.Total.StringFixed(2))
	return b.String()
}

package notifications

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/angelmondragon/repairshop-backend/pkg/logger"
	"github.com/angelmondragon/repairshop-backend/pkg/metrics"
)

// Dispatcher fans a message out to every configured notifier. A failing
// channel never stops the others.
type Dispatcher struct {
	notifiers []Notifier
	metrics   *metrics.BookingMetrics
	logg      *logger.Logger
}

// NewDispatcher wires the notifiers in delivery order.
func NewDispatcher(logg *logger.Logger, m *metrics.BookingMetrics, notifiers ...Notifier) (*Dispatcher, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	active := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	return &Dispatcher{notifiers: active, metrics: m, logg: logg}, nil
}

// Notify sends msg on all channels and returns the combined failures.
func (d *Dispatcher) Notify(ctx context.Context, msg Message) error {
	var errs error
	for _, n := range d.notifiers {
		if err := n.Send(ctx, msg); err != nil {
			channel := n.Channel().String()
			d.metrics.IncNotificationFailure(channel)
			d.logg.Error(d.logg.WithFields(d.logg.WithBookingRef(ctx, msg.Reference), map[string]any{
				"channel": channel,
			}), "notification failed", err)
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

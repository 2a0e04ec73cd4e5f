package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/angelmondragon/repairshop-backend/pkg/config"
	"github.com/angelmondragon/repairshop-backend/pkg/enums"
	"github.com/angelmondragon/repairshop-backend/pkg/logger"
)

// Notifier delivers a message over one channel.
type Notifier interface {
	Channel() enums.NotificationChannel
	Send(ctx context.Context, msg Message) error
}

// LogNotifier records confirmations in the structured log.
type LogNotifier struct {
	logg     *logger.Logger
	shopName string
}

// NewLogNotifier builds the always-on log channel.
func NewLogNotifier(logg *logger.Logger, shopName string) (*LogNotifier, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &LogNotifier{logg: logg, shopName: shopName}, nil
}

func (n *LogNotifier) Channel() enums.NotificationChannel { return enums.NotificationChannelLog }

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	ctx = n.logg.WithBookingRef(ctx, msg.Reference)
	ctx = n.logg.WithFields(ctx, map[string]any{
		"kind": string(msg.Kind),
		"shop": n.shopName,
	})
	n.logg.Info(ctx, "booking confirmation")
	return nil
}

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSNotifier texts the customer through Twilio.
type SMSNotifier struct {
	api      messageCreator
	from     string
	shopName string
}

// NewSMSNotifier builds a Twilio-backed notifier from credentials.
func NewSMSNotifier(cfg config.TwilioConfig, shopName string) (*SMSNotifier, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("twilio credentials required")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &SMSNotifier{api: client.Api, from: cfg.FromNumber, shopName: shopName}, nil
}

func (n *SMSNotifier) Channel() enums.NotificationChannel { return enums.NotificationChannelSMS }

func (n *SMSNotifier) Send(ctx context.Context, msg Message) error {
	to := strings.TrimSpace(msg.Phone)
	if to == "" {
		return fmt.Errorf("booking %s has no phone number", msg.Reference)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.from)
	params.SetBody(msg.Body(n.shopName))

	if _, err := n.api.CreateMessage(params); err != nil {
		return fmt.Errorf("send sms for %s: %w", msg.Reference, err)
	}
	return nil
}

package main

import (
	"context"

	"bamtech/internal/config"
	"bamtech/internal/mailer"
	"bamtech/internal/relay"
)

// Deliverer forwards an archived inquiry to the people who answer it.
type Deliverer interface {
	Deliver(ctx context.Context, sub relay.Submission) error
	Method() string
}

type relayDeliverer struct{ client *relay.Client }

func (d relayDeliverer) Deliver(ctx context.Context, sub relay.Submission) error {
	return d.client.Submit(ctx, sub)
}

func (relayDeliverer) Method() string { return config.DeliveryRelay }

type mailDeliverer struct{ sender mailer.Sender }

func (d mailDeliverer) Deliver(ctx context.Context, sub relay.Submission) error {
	return d.sender.SendInquiry(ctx, sub)
}

func (mailDeliverer) Method() string { return config.DeliveryResend }

// archiveOnly keeps inquiries in the database without forwarding them.
type archiveOnly struct{}

func (archiveOnly) Deliver(context.Context, relay.Submission) error { return nil }

func (archiveOnly) Method() string { return config.DeliveryNone }

func newDeliverer(settings *config.Settings, site *config.SiteConfig) Deliverer {
	switch settings.Delivery {
	case config.DeliveryRelay:
		return relayDeliverer{client: relay.NewClient(site.Relay.Action, nil)}
	case config.DeliveryResend:
		return mailDeliverer{sender: mailer.NewResendSender(settings.ResendAPIKey, settings.MailFrom, settings.MailTo)}
	default:
		return archiveOnly{}
	}
}

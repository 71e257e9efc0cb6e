package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"vastusite/internal/models"
	"vastusite/internal/notify"
	"vastusite/internal/queue"
)

// Processor handles events from the lead stream.
type Processor struct {
	notifier notify.Notifier
	logger   zerolog.Logger
}

func NewProcessor(notifier notify.Notifier, logger zerolog.Logger) *Processor {
	return &Processor{
		notifier: notifier,
		logger:   logger,
	}
}

func (p *Processor) Handle(ctx context.Context, event queue.Event) error {
	switch event.Type {
	case queue.EventLeadCaptured:
		var lead models.Lead
		if err := decodePayload(event, &lead); err != nil {
			return err
		}
		return p.handleLeadCaptured(ctx, lead)
	case queue.EventPartnerRegistered:
		var app models.PartnerApplication
		if err := decodePayload(event, &app); err != nil {
			return err
		}
		return p.notifier.PartnerApplied(ctx, app)
	case queue.EventLeadsDigest:
		var digest models.LeadDigest
		if err := decodePayload(event, &digest); err != nil {
			return err
		}
		return p.notifier.Digest(ctx, digest)
	default:
		p.logger.Warn().Str("type", string(event.Type)).Str("id", event.ID).Msg("unknown event type")
		return nil
	}
}

func decodePayload(event queue.Event, out any) error {
	if err := json.Unmarshal(event.Payload, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", event.Type, err)
	}
	return nil
}

func (p *Processor) handleLeadCaptured(ctx context.Context, lead models.Lead) error {
	p.logger.Info().
		Str("lead_id", lead.ID).
		Str("source", string(lead.Source)).
		Msg("lead captured")

	if !lead.NeedsFollowUp() {
		return nil
	}
	return p.notifier.LeadNeedsFollowUp(ctx, lead)
}

package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vastusite/internal/ids"
	"vastusite/internal/models"
	"vastusite/internal/queue"
)

const referralPrefix = "VP"

// PartnerService accepts partner applications. Nothing is stored; the
// application is logged and published for the worker.
type PartnerService struct {
	events EventPublisher
	log    zerolog.Logger
	now    func() time.Time
}

func NewPartnerService(events EventPublisher, log zerolog.Logger) *PartnerService {
	return &PartnerService{events: events, log: log, now: time.Now}
}

type PartnerInput struct {
	Name       string
	Email      string
	Phone      string
	Company    string
	City       string
	Experience string
	Message    string
}

func (s *PartnerService) Register(ctx context.Context, input PartnerInput) (models.PartnerApplication, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	phone := strings.TrimSpace(input.Phone)
	if name == "" || email == "" || phone == "" {
		return models.PartnerApplication{}, invalid("Name, email and phone are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.PartnerApplication{}, invalid("Invalid email address")
	}

	code, err := ids.NewReferralCode(referralPrefix, 6)
	if err != nil {
		return models.PartnerApplication{}, fmt.Errorf("generate referral code: %w", err)
	}

	app := models.PartnerApplication{
		ApplicationID: ids.NewUUID(),
		ReferralCode:  code,
		Name:          name,
		Email:         email,
		Phone:         phone,
		Company:       strings.TrimSpace(input.Company),
		City:          strings.TrimSpace(input.City),
		Experience:    strings.TrimSpace(input.Experience),
		Message:       strings.TrimSpace(input.Message),
		SubmittedAt:   s.now().UTC(),
	}

	s.log.Info().
		Str("application_id", app.ApplicationID).
		Str("referral_code", app.ReferralCode).
		Str("name", app.Name).
		Str("email", app.Email).
		Str("city", app.City).
		Msg("partner application received")

	if s.events != nil {
		event, err := queue.NewEvent(queue.EventPartnerRegistered, app)
		if err == nil {
			err = s.events.Publish(ctx, event)
		}
		if err != nil {
			s.log.Warn().Err(err).Str("application_id", app.ApplicationID).Msg("publish partner event failed")
		}
	}

	return app, nil
}

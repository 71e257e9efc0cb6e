package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vastusite/internal/ids"
	"vastusite/internal/models"
	"vastusite/internal/queue"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type LeadStore interface {
	List(ctx context.Context) ([]models.Lead, error)
	Insert(ctx context.Context, lead models.Lead) error
	Update(ctx context.Context, id string, fn func(*models.Lead) error) (models.Lead, error)
	Delete(ctx context.Context, id string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event queue.Event) error
}

type LeadService struct {
	store  LeadStore
	events EventPublisher
	log    zerolog.Logger
	now    func() time.Time
}

func NewLeadService(store LeadStore, events EventPublisher, log zerolog.Logger) *LeadService {
	return &LeadService{
		store:  store,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

type CaptureInput struct {
	Name      string
	Phone     string
	City      string
	PlotSize  string
	Direction string
	Rooms     string
	AIStatus  string
	Notes     string
}

func (s *LeadService) Capture(ctx context.Context, input CaptureInput) (models.Lead, error) {
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" || phone == "" {
		return models.Lead{}, invalid("Name and phone are required")
	}

	source := sourceFromAIStatus(input.AIStatus)

	lead := models.Lead{
		ID:        ids.NewLeadID(),
		Name:      name,
		Phone:     phone,
		City:      strings.TrimSpace(input.City),
		PlotSize:  strings.TrimSpace(input.PlotSize),
		Direction: strings.TrimSpace(input.Direction),
		Rooms:     strings.TrimSpace(input.Rooms),
		Status:    models.LeadStatusPending,
		Source:    source,
		CreatedAt: s.now().UTC(),
		Notes:     strings.TrimSpace(input.Notes),
	}

	if err := s.store.Insert(ctx, lead); err != nil {
		return models.Lead{}, fmt.Errorf("save lead: %w", err)
	}

	s.log.Info().
		Str("lead_id", lead.ID).
		Str("source", string(lead.Source)).
		Msg("lead captured")

	s.publish(ctx, queue.EventLeadCaptured, lead)

	return lead, nil
}

// sourceFromAIStatus maps the intake form's classification flag onto a lead
// source. Anything other than a success or failure flag is a direct lead.
func sourceFromAIStatus(status string) models.LeadSource {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "success", "generated", "ai_generated":
		return models.LeadSourceAIGenerated
	case "failed", "error", "ai_failed":
		return models.LeadSourceAIFailed
	}
	return models.LeadSourceDirect
}

type QueryInput struct {
	Q      string
	Status string
	Source string
	Page   int
	Limit  int
	All    bool
}

type QueryResult struct {
	Leads      []models.Lead     `json:"leads"`
	Stats      models.LeadStats  `json:"stats"`
	Pagination models.Pagination `json:"pagination"`
}

func (s *LeadService) Query(ctx context.Context, input QueryInput) (QueryResult, error) {
	status := models.LeadStatus(strings.TrimSpace(input.Status))
	if status != "" && !status.Valid() {
		return QueryResult{}, invalid("Invalid status %q", input.Status)
	}
	source := models.LeadSource(strings.TrimSpace(input.Source))
	if source != "" && !source.Valid() {
		return QueryResult{}, invalid("Invalid source %q", input.Source)
	}

	leads, err := s.store.List(ctx)
	if err != nil {
		return QueryResult{}, fmt.Errorf("load leads: %w", err)
	}

	filtered := filterLeads(leads, strings.TrimSpace(input.Q), status, source)
	result := QueryResult{Stats: ComputeStats(leads)}

	if input.All {
		result.Leads = filtered
		result.Pagination = models.Pagination{
			Total:      len(filtered),
			TotalPages: 1,
			Page:       1,
			Limit:      len(filtered),
		}
		return result, nil
	}

	result.Leads, result.Pagination = paginate(filtered, input.Page, input.Limit)
	return result, nil
}

func (s *LeadService) Stats(ctx context.Context) (models.LeadStats, error) {
	leads, err := s.store.List(ctx)
	if err != nil {
		return models.LeadStats{}, fmt.Errorf("load leads: %w", err)
	}
	return ComputeStats(leads), nil
}

func ComputeStats(leads []models.Lead) models.LeadStats {
	stats := models.LeadStats{Total: len(leads)}
	for _, lead := range leads {
		if lead.Status == models.LeadStatusPending {
			stats.Pending++
		}
		if lead.Source == models.LeadSourceAIGenerated {
			stats.AIGenerated++
		}
		if lead.NeedsFollowUp() {
			stats.NeedsFollowUp++
		}
	}
	return stats
}

func filterLeads(leads []models.Lead, q string, status models.LeadStatus, source models.LeadSource) []models.Lead {
	needle := strings.ToLower(q)
	out := make([]models.Lead, 0, len(leads))
	for _, lead := range leads {
		if status != "" && lead.Status != status {
			continue
		}
		if source != "" && lead.Source != source {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(lead.Name), needle) &&
			!strings.Contains(strings.ToLower(lead.Phone), needle) &&
			!strings.Contains(strings.ToLower(lead.City), needle) {
			continue
		}
		out = append(out, lead)
	}
	return out
}

func paginate(leads []models.Lead, page, limit int) ([]models.Lead, models.Pagination) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(leads)
	meta := models.Pagination{
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
		Page:       page,
		Limit:      limit,
	}

	if page > meta.TotalPages {
		return []models.Lead{}, meta
	}
	start := (page - 1) * limit
	end := start + limit
	if end > total {
		end = total
	}
	return leads[start:end], meta
}

// UpdateInput carries a partial update. Nil and empty values are ignored, so a
// field cannot be cleared through Update.
type UpdateInput struct {
	ID        string
	Status    *string
	Notes     *string
	Name      *string
	Phone     *string
	City      *string
	PlotSize  *string
	Direction *string
	Rooms     *string
}

func (s *LeadService) Update(ctx context.Context, input UpdateInput) (models.Lead, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return models.Lead{}, invalid("Lead ID is required")
	}

	var status models.LeadStatus
	if v, ok := present(input.Status); ok {
		status = models.LeadStatus(v)
		if !status.Valid() {
			return models.Lead{}, invalid("Invalid status %q", v)
		}
	}

	lead, err := s.store.Update(ctx, id, func(l *models.Lead) error {
		if status != "" {
			l.Status = status
		}
		apply(&l.Notes, input.Notes)
		apply(&l.Name, input.Name)
		apply(&l.Phone, input.Phone)
		apply(&l.City, input.City)
		apply(&l.PlotSize, input.PlotSize)
		apply(&l.Direction, input.Direction)
		apply(&l.Rooms, input.Rooms)
		return nil
	})
	if err != nil {
		return models.Lead{}, err
	}

	s.log.Info().Str("lead_id", lead.ID).Str("status", string(lead.Status)).Msg("lead updated")
	return lead, nil
}

func (s *LeadService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return invalid("Lead ID is required")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("lead_id", id).Msg("lead deleted")
	return nil
}

func (s *LeadService) publish(ctx context.Context, eventType queue.EventType, payload any) {
	if s.events == nil {
		return
	}
	event, err := queue.NewEvent(eventType, payload)
	if err == nil {
		err = s.events.Publish(ctx, event)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("type", string(eventType)).Msg("publish event failed")
	}
}

func present(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	trimmed := strings.TrimSpace(*v)
	return trimmed, trimmed != ""
}

func apply(dst *string, v *string) {
	if val, ok := present(v); ok {
		*dst = val
	}
}

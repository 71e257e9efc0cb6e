package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"vastusite/internal/config"
	"vastusite/internal/models"
	"vastusite/internal/queue"
)

const jobTimeout = 2 * time.Minute

type SnapshotSource interface {
	Snapshot(ctx context.Context) ([]byte, error)
}

type BackupSink interface {
	PutSnapshot(ctx context.Context, key string, data []byte) error
}

type StatsSource interface {
	Stats(ctx context.Context) (models.LeadStats, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event queue.Event) error
}

// Deps are the collaborators of the scheduled jobs. A job whose sink is nil is
// not scheduled.
type Deps struct {
	Snapshots SnapshotSource
	Backups   BackupSink
	Stats     StatsSource
	Events    EventPublisher
}

type Scheduler struct {
	cron *cron.Cron
	cfg  config.JobsConfig
	deps Deps
	log  zerolog.Logger
	now  func() time.Time
}

func NewScheduler(cfg config.JobsConfig, deps Deps, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		cfg:  cfg,
		deps: deps,
		log:  log,
		now:  time.Now,
	}
}

func (s *Scheduler) Start() error {
	scheduled := 0

	if s.deps.Snapshots != nil && s.deps.Backups != nil && s.cfg.BackupSchedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.BackupSchedule, s.run("backup", s.Backup)); err != nil {
			return fmt.Errorf("schedule backup: %w", err)
		}
		scheduled++
	}
	if s.deps.Stats != nil && s.deps.Events != nil && s.cfg.DigestSchedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.DigestSchedule, s.run("digest", s.Digest)); err != nil {
			return fmt.Errorf("schedule digest: %w", err)
		}
		scheduled++
	}

	if scheduled == 0 {
		s.log.Info().Msg("no scheduled jobs enabled")
		return nil
	}

	s.cron.Start()
	s.log.Info().Int("jobs", scheduled).Msg("scheduler started")
	return nil
}

// Stop halts the scheduler and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

// Backup uploads the current lead file under a date-partitioned key.
func (s *Scheduler) Backup(ctx context.Context) error {
	data, err := s.deps.Snapshots.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot leads: %w", err)
	}

	key := BackupKey(s.now())
	if err := s.deps.Backups.PutSnapshot(ctx, key, data); err != nil {
		return err
	}

	s.log.Info().Str("key", key).Int("bytes", len(data)).Msg("lead backup uploaded")
	return nil
}

// Digest publishes the current lead statistics for the worker to report.
func (s *Scheduler) Digest(ctx context.Context) error {
	stats, err := s.deps.Stats.Stats(ctx)
	if err != nil {
		return err
	}

	event, err := queue.NewEvent(queue.EventLeadsDigest, models.LeadDigest{
		Stats:       stats,
		GeneratedAt: s.now().UTC(),
	})
	if err != nil {
		return err
	}
	if err := s.deps.Events.Publish(ctx, event); err != nil {
		return err
	}

	s.log.Info().Int("total", stats.Total).Int("needs_follow_up", stats.NeedsFollowUp).Msg("lead digest published")
	return nil
}

func BackupKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("leads/%s/leads-%s.json", t.Format("2006/01/02"), t.Format("20060102T150405Z"))
}

func (s *Scheduler) run(name string, job func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if err := job(ctx); err != nil {
			s.log.Error().Err(err).Str("job", name).Msg("scheduled job failed")
		}
	}
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"vastusite/internal/models"
)

var ErrLeadNotFound = errors.New("lead not found")

// LeadRepository persists the whole lead collection as one JSON array, newest
// first. Mutations are read-modify-write cycles serialized by an in-process
// mutex and an advisory lock file shared with other processes.
type LeadRepository struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

func NewLeadRepository(dataDir, fileName string) *LeadRepository {
	path := filepath.Join(dataDir, fileName)
	return &LeadRepository{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

func (r *LeadRepository) Path() string {
	return r.path
}

func (r *LeadRepository) List(ctx context.Context) ([]models.Lead, error) {
	var leads []models.Lead
	err := r.withLock(ctx, func() error {
		var err error
		leads, err = r.read()
		return err
	})
	return leads, err
}

func (r *LeadRepository) Insert(ctx context.Context, lead models.Lead) error {
	return r.withLock(ctx, func() error {
		leads, err := r.read()
		if err != nil {
			return err
		}
		for _, existing := range leads {
			if existing.ID == lead.ID {
				return fmt.Errorf("insert lead: duplicate id %s", lead.ID)
			}
		}
		leads = append([]models.Lead{lead}, leads...)
		return r.write(leads)
	})
}

// Update applies fn to the lead with id and persists the result.
func (r *LeadRepository) Update(ctx context.Context, id string, fn func(*models.Lead) error) (models.Lead, error) {
	var updated models.Lead
	err := r.withLock(ctx, func() error {
		leads, err := r.read()
		if err != nil {
			return err
		}
		idx := indexOf(leads, id)
		if idx < 0 {
			return ErrLeadNotFound
		}
		if err := fn(&leads[idx]); err != nil {
			return err
		}
		updated = leads[idx]
		return r.write(leads)
	})
	return updated, err
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	return r.withLock(ctx, func() error {
		leads, err := r.read()
		if err != nil {
			return err
		}
		idx := indexOf(leads, id)
		if idx < 0 {
			return ErrLeadNotFound
		}
		leads = append(leads[:idx], leads[idx+1:]...)
		return r.write(leads)
	})
}

// Snapshot returns the raw JSON document as stored on disk.
func (r *LeadRepository) Snapshot(ctx context.Context) ([]byte, error) {
	var data []byte
	err := r.withLock(ctx, func() error {
		raw, err := os.ReadFile(r.path)
		if errors.Is(err, fs.ErrNotExist) {
			data = []byte("[]")
			return nil
		}
		data = raw
		return err
	})
	return data, err
}

func (r *LeadRepository) withLock(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := r.lock.Lock(); err != nil {
		return fmt.Errorf("lock lead store: %w", err)
	}
	defer func() { _ = r.lock.Unlock() }()

	return fn()
}

func (r *LeadRepository) read() ([]models.Lead, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Lead{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read leads: %w", err)
	}
	if len(data) == 0 {
		return []models.Lead{}, nil
	}

	var leads []models.Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		return nil, fmt.Errorf("decode leads: %w", err)
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	return leads, nil
}

func (r *LeadRepository) write(leads []models.Lead) error {
	data, err := json.MarshalIndent(leads, "", "  ")
	if err != nil {
		return fmt.Errorf("encode leads: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".leads-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write leads: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync leads: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close leads: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace leads: %w", err)
	}
	return nil
}

func indexOf(leads []models.Lead, id string) int {
	for i, lead := range leads {
		if lead.ID == id {
			return i
		}
	}
	return -1
}

// Package settings stores small application-wide key/value entries such as the dashboard note.
package settings

import (
	"context"
	"time"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
)

// KeyDashboardNote holds the shared note shown on the dashboard.
const KeyDashboardNote = "dashboard_note"

// maxValueLength bounds a stored value (runes).
const maxValueLength = 10000

// Entry is one stored setting.
type Entry struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Repository persists settings.
type Repository interface {
	// Get returns NotFound when the key was never saved.
	Get(ctx context.Context, key string) (*Entry, error)
	Upsert(ctx context.Context, e *Entry) error
}

// Service exposes the dashboard note.
type Service struct {
	repo Repository
}

// NewService creates a new settings service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetNote returns the dashboard note, empty if never saved.
func (s *Service) GetNote(ctx context.Context) (string, error) {
	e, err := s.repo.Get(ctx, KeyDashboardNote)
	if err != nil {
		if apperror.IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return e.Value, nil
}

// SaveNote replaces the dashboard note.
func (s *Service) SaveNote(ctx context.Context, note string) error {
	if len([]rune(note)) > maxValueLength {
		return apperror.NewValidation("note is too long").
			WithDetail("max_length", maxValueLength)
	}
	return s.repo.Upsert(ctx, &Entry{
		Key:       KeyDashboardNote,
		Value:     note,
		UpdatedAt: time.Now().UTC(),
	})
}

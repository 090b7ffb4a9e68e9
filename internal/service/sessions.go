package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/NathanMorier/ultimatetimer/internal/models"
	"github.com/NathanMorier/ultimatetimer/internal/store"
)

// SessionEdit is a user edit of one historical session. Duration is never
// edited directly; it is recomputed from the edited bounds on save.
type SessionEdit struct {
	StartTime time.Time `validate:"required"`
	EndTime   time.Time `validate:"required,gtfield=StartTime"`
	Note      string
}

// SessionService is the user-facing write path for the session history. The
// engines append sessions independently, so every mutation here re-reads the
// stored collection immediately before writing it back.
type SessionService struct {
	storage  *store.Storage
	validate *validator.Validate
}

func NewSessionService(storage *store.Storage) *SessionService {
	return &SessionService{
		storage:  storage,
		validate: validator.New(),
	}
}

// Sessions returns the history, newest first.
func (s *SessionService) Sessions() []models.Session {
	sessions := s.storage.LoadSessions()
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})
	return sessions
}

// Update applies an edit to the matching session. The edit is validated
// before any state changes; end must be strictly after start. Unknown ids
// are a no-op.
func (s *SessionService) Update(id string, edit SessionEdit) error {
	if err := s.validate.Struct(edit); err != nil {
		return fmt.Errorf("invalid session edit: %w", err)
	}

	sessions := s.storage.LoadSessions()
	for i := range sessions {
		if sessions[i].ID == id {
			sessions[i].StartTime = edit.StartTime
			sessions[i].EndTime = edit.EndTime
			sessions[i].Duration = edit.EndTime.Sub(edit.StartTime).Milliseconds() / 1000
			sessions[i].Note = edit.Note
			return s.storage.SaveSessions(sessions)
		}
	}
	return nil
}

// Delete removes the matching session. Unknown ids are a no-op.
func (s *SessionService) Delete(id string) error {
	sessions := s.storage.LoadSessions()
	remaining := sessions[:0]
	for _, session := range sessions {
		if session.ID != id {
			remaining = append(remaining, session)
		}
	}
	return s.storage.SaveSessions(remaining)
}

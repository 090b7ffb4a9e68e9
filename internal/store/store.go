package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/NathanMorier/ultimatetimer/internal/models"
)

const (
	categoriesFile = "categories.json"
	sessionsFile   = "sessions.json"
	timersFile     = "active_timers.json"
	countdownsFile = "active_countdowns.json"
)

// Storage persists each collection as a whole-file JSON snapshot under
// BaseDir. A missing or unreadable file loads as an empty collection so the
// app stays usable after a first run or storage corruption.
type Storage struct {
	BaseDir string
	mu      sync.Mutex
	logger  *zap.SugaredLogger
}

func NewStorage(baseDir string, logger *zap.SugaredLogger) *Storage {
	os.MkdirAll(baseDir, 0755)
	return &Storage{BaseDir: baseDir, logger: logger}
}

func (s *Storage) path(name string) string {
	return filepath.Join(s.BaseDir, name)
}

// loadCollection reads a snapshot file into dest (a pointer to a slice).
// Absence and parse failures both leave dest empty.
func (s *Storage) loadCollection(name string, dest interface{}) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warnf("store: read %s: %v", name, err)
		}
		return
	}
	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warnf("store: parse %s, starting empty: %v", name, err)
	}
}

// saveCollection writes the full snapshot through a temp file so a crash
// mid-write cannot truncate the previous snapshot.
func (s *Storage) saveCollection(name string, collection interface{}) error {
	data, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	target := s.path(name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func (s *Storage) LoadCategories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := []models.Category{}
	s.loadCollection(categoriesFile, &categories)
	return categories
}

func (s *Storage) SaveCategories(categories []models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCollection(categoriesFile, categories)
}

func (s *Storage) LoadSessions() []models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := []models.Session{}
	s.loadCollection(sessionsFile, &sessions)
	return sessions
}

func (s *Storage) SaveSessions(sessions []models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCollection(sessionsFile, sessions)
}

// AddSession re-reads the stored collection before appending so an append
// never clobbers sessions written since the caller's last load.
func (s *Storage) AddSession(session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := []models.Session{}
	s.loadCollection(sessionsFile, &sessions)
	sessions = append(sessions, session)
	return s.saveCollection(sessionsFile, sessions)
}

func (s *Storage) LoadActiveTimers() []models.ActiveTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	timers := []models.ActiveTimer{}
	s.loadCollection(timersFile, &timers)
	return timers
}

func (s *Storage) SaveActiveTimers(timers []models.ActiveTimer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCollection(timersFile, timers)
}

func (s *Storage) LoadActiveCountdowns() []models.ActiveCountdown {
	s.mu.Lock()
	defer s.mu.Unlock()

	countdowns := []models.ActiveCountdown{}
	s.loadCollection(countdownsFile, &countdowns)
	return countdowns
}

func (s *Storage) SaveActiveCountdowns(countdowns []models.ActiveCountdown) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCollection(countdownsFile, countdowns)
}

// DeleteAllSessions erases the session history file.
func (s *Storage) DeleteAllSessions() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(sessionsFile)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// UpdateBaseDir points the storage at a new folder without moving data.
func (s *Storage) UpdateBaseDir(baseDir string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	os.MkdirAll(baseDir, 0755)
	s.BaseDir = baseDir
}

// MoveData copies the known snapshot files into newDir and switches over.
// The old files are left in place so a failed move loses nothing.
func (s *Storage) MoveData(newDir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(newDir, 0755); err != nil {
		return err
	}

	for _, name := range []string{categoriesFile, sessionsFile, timersFile, countdownsFile} {
		data, err := os.ReadFile(s.path(name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if err := os.WriteFile(filepath.Join(newDir, name), data, 0644); err != nil {
			return err
		}
	}

	s.BaseDir = newDir
	return nil
}

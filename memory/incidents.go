package memory

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MaxIncidents bounds the persisted history; older entries are dropped first.
const MaxIncidents = 500

// ToolCall is the persisted view of one tool execution.
type ToolCall struct {
	Name    string `json:"name"`
	IsError bool   `json:"is_error,omitempty"`
}

// Incident is one resolved (or failed) scenario.
type Incident struct {
	ID         string     `json:"id"`
	TurnID     string     `json:"turn_id"`
	Scenario   string     `json:"scenario"`
	Category   string     `json:"category"`
	Answer     string     `json:"answer,omitempty"`
	Error      string     `json:"error,omitempty"`
	Steps      int        `json:"steps"`
	Tools      []ToolCall `json:"tools,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	DurationMS int64      `json:"duration_ms"`
}

func LoadIncidents(path string) ([]Incident, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var incs []Incident
	if err := json.Unmarshal(b, &incs); err != nil {
		return nil, err
	}
	return incs, nil
}

// SaveIncidents writes incs atomically, creating parent directories.
func SaveIncidents(path string, incs []Incident) error {
	b, err := json.MarshalIndent(incs, "", " ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Store serialises access to one history file. A nil Store is a disabled
// history: appends are dropped and reads are empty.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) Load() ([]Incident, error) {
	if s == nil {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return LoadIncidents(s.path)
}

// Append adds inc to the end of the history.
func (s *Store) Append(inc Incident) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	incs, err := LoadIncidents(s.path)
	if err != nil {
		return err
	}
	incs = append(incs, inc)
	if len(incs) > MaxIncidents {
		incs = incs[len(incs)-MaxIncidents:]
	}
	return SaveIncidents(s.path, incs)
}

// Recent returns up to n incidents, newest first. n <= 0 returns all.
func (s *Store) Recent(n int) ([]Incident, error) {
	incs, err := s.Load()
	if err != nil {
		return nil, err
	}
	if n <= 0 || n > len(incs) {
		n = len(incs)
	}
	out := make([]Incident, 0, n)
	for i := len(incs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, incs[i])
	}
	return out, nil
}

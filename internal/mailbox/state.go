package mailbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// ErrAlreadyReacted is returned before any request is made for a letter
// this reader already reacted to.
var ErrAlreadyReacted = errors.New("already reacted to this letter")

type stateFile struct {
	Reacted []string `json:"reacted-letters"`
	Opened  []string `json:"opened-letters"`
}

// State is the reader's local record, persisted as a JSON file.
type State struct {
	mu      sync.Mutex
	path    string
	reacted map[string]struct{}
	opened  map[string]struct{}
}

// LoadState reads path. A missing file yields an empty state.
func LoadState(path string) (*State, error) {
	s := &State{
		path:    path,
		reacted: make(map[string]struct{}),
		opened:  make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}

	var f stateFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse state %s: %w", path, err)
	}
	for _, id := range f.Reacted {
		s.reacted[id] = struct{}{}
	}
	for _, id := range f.Opened {
		s.opened[id] = struct{}{}
	}
	return s, nil
}

func (s *State) HasReacted(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.reacted[id]
	return ok
}

func (s *State) MarkReacted(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reacted[id] = struct{}{}
}

func (s *State) HasOpened(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.opened[id]
	return ok
}

func (s *State) MarkOpened(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened[id] = struct{}{}
}

// React runs send unless id was already reacted to, and records id only
// when send succeeds.
func (s *State) React(id string, send func() (int, error)) (int, error) {
	if s.HasReacted(id) {
		return 0, ErrAlreadyReacted
	}
	count, err := send()
	if err != nil {
		return 0, err
	}
	s.MarkReacted(id)
	return count, nil
}

// Save writes the state atomically via a temp file in the same directory.
func (s *State) Save() error {
	s.mu.Lock()
	f := stateFile{Reacted: sortedKeys(s.reacted), Opened: sortedKeys(s.opened)}
	s.mu.Unlock()

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".letterbox-state-*")
	if err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gosuda/fathercli/internal/domain"
)

// ErrInvalidAPIPair is returned when an "id:hash" credential pair is malformed.
var ErrInvalidAPIPair = errors.New("config: invalid api id:hash pair") //nolint:gochecknoglobals // sentinel error

// State is the persisted user state: Telegram API credentials and the cached
// bot directory. Mutations stay in memory until Persist is called.
type State struct {
	APIID   int                `json:"api_id"`
	APIHash string             `json:"api_hash"` //nolint:gosec // G117: API credential
	Bots    []domain.BotRecord `json:"bots"`

	path string
}

// LoadState reads the state file at path. A missing file yields empty defaults.
func LoadState(path string) (*State, error) {
	s := &State{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config.LoadState: %w", err)
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("config.LoadState: decode %s: %w", path, err)
	}
	return s, nil
}

// Path returns the file the state persists to.
func (s *State) Path() string {
	return s.path
}

// HasCredentials reports whether API credentials are configured.
func (s *State) HasCredentials() bool {
	return s.APIID != 0 && s.APIHash != ""
}

// SetCredentials parses an "id:hash" pair and stores it.
func (s *State) SetCredentials(pair string) error {
	id, hash, err := ParseAPIPair(pair)
	if err != nil {
		return fmt.Errorf("config.State.SetCredentials: %w", err)
	}
	s.APIID = id
	s.APIHash = hash
	return nil
}

// SetBots replaces the cached bot directory.
func (s *State) SetBots(bots []domain.BotRecord) {
	s.Bots = append([]domain.BotRecord(nil), bots...)
}

// Persist writes the state to disk atomically (temp file + rename).
func (s *State) Persist() error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("config.State.Persist: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("config.State.Persist: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("config.State.Persist: write: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("config.State.Persist: chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config.State.Persist: close: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("config.State.Persist: rename: %w", err)
	}
	return nil
}

// ParseAPIPair splits "12345:1a2b3c" into the numeric API id and the hash.
func ParseAPIPair(pair string) (int, string, error) {
	idStr, hash, ok := strings.Cut(strings.TrimSpace(pair), ":")
	if !ok || hash == "" {
		return 0, "", fmt.Errorf("%q: %w", pair, ErrInvalidAPIPair)
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, "", fmt.Errorf("%q: api id must be a positive integer: %w", pair, ErrInvalidAPIPair)
	}
	return id, hash, nil
}

package portfel

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const (
	positionsFile = "positions.txt"
	settingsFile  = "settings.json"
)

// Store persists the raw positions text and the settings in a folder.
//
// It is single-user: there is no locking, the last write wins.
type Store struct {
	Dir string
	Log zerolog.Logger
}

// NewStore returns a store rooted at dir.
func NewStore(dir string, log zerolog.Logger) *Store {
	return &Store{Dir: dir, Log: log}
}

// LoadPositions returns the saved positions text, or DefaultPositions if
// nothing (or only blanks) was saved yet.
func (s *Store) LoadPositions() (string, error) {
	content, err := os.ReadFile(filepath.Join(s.Dir, positionsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultPositions, nil
	}
	if err != nil {
		return "", fmt.Errorf("cannot read positions: %w", err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return DefaultPositions, nil
	}
	return string(content), nil
}

// SavePositions saves the positions text as is.
func (s *Store) SavePositions(text string) error {
	return s.write(positionsFile, []byte(text))
}

// LoadSettings returns the saved settings. Missing or invalid settings
// fall back to DefaultSettings.
func (s *Store) LoadSettings() (Settings, error) {
	content, err := os.ReadFile(filepath.Join(s.Dir, settingsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("cannot read settings: %w", err)
	}
	settings := DefaultSettings()
	if err := json.Unmarshal(content, &settings); err != nil {
		s.Log.Warn().Err(err).Str("file", settingsFile).Msg("invalid settings ignored")
		return DefaultSettings(), nil
	}
	return settings, nil
}

// SaveSettings saves the settings as indented JSON.
func (s *Store) SaveSettings(settings Settings) error {
	content, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return s.write(settingsFile, content)
}

// write atomically replaces name with content.
func (s *Store) write(name string, content []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("cannot create %q: %w", s.Dir, err)
	}
	tmp, err := os.CreateTemp(s.Dir, name+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cannot save %s: %w", name, err)
	}
	s.Log.Debug().Str("file", name).Int("bytes", len(content)).Msg("saved")
	return nil
}

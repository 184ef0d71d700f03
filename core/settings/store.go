// Package settings persists markcopy settings as a single JSON object and
// manages text replacement rules and export/import bundles.
//
// Loading fills defaults under whatever is stored. Saving merges into the
// stored object instead of replacing it, so fields this version does not
// know about survive a round trip.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/gaurav-prasanna/markcopy/core"
)

const (
	// AppName is the application name used for XDG directory paths.
	AppName = "markcopy"

	// DefaultFile is the settings file name inside the config directory.
	DefaultFile = "settings.json"
)

// ErrCorrupt is returned when the settings file is not a JSON object.
var ErrCorrupt = errors.New("decoding settings")

// ConfigDir returns the XDG config directory for markcopy.
// On Linux: ~/.config/markcopy
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultPath returns the default settings file path.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), DefaultFile)
}

// Store reads and writes settings at a fixed path.
type Store struct {
	path string
}

// NewStore creates a Store. An empty path means DefaultPath().
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path}
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns stored settings merged over the defaults. A missing file
// yields the defaults. On a decode error the defaults are returned along
// with the error so callers can warn and carry on.
func (s *Store) Load() (core.Settings, error) {
	raw, err := s.loadRaw()
	if err != nil {
		return core.DefaultSettings(), err
	}
	return decode(raw)
}

// Save merges settings into the stored object and writes it back.
func (s *Store) Save(settings core.Settings) error {
	raw, err := s.loadRaw()
	if err != nil {
		return err
	}
	if err := mergeInto(raw, settings); err != nil {
		return err
	}
	return s.writeRaw(raw)
}

// Reset restores every known setting to its default. Unknown fields are
// left alone, unless the file cannot be decoded at all; then it is
// rewritten from scratch.
func (s *Store) Reset() error {
	raw, err := s.loadRaw()
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return err
	}
	if err := mergeInto(raw, core.DefaultSettings()); err != nil {
		return err
	}
	return s.writeRaw(raw)
}

func (s *Store) loadRaw() (map[string]json.RawMessage, error) {
	raw := map[string]json.RawMessage{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return raw, nil
		}
		return raw, fmt.Errorf("reading settings: %w", err)
	}
	if len(data) == 0 {
		return raw, nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return map[string]json.RawMessage{}, fmt.Errorf("%w %s: %w", ErrCorrupt, s.path, err)
	}
	return raw, nil
}

func (s *Store) writeRaw(raw map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".settings-*.json")
	if err != nil {
		return fmt.Errorf("creating temp settings file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing settings: %w", err)
	}
	return nil
}

// decode fills defaults, then overlays the stored fields.
func decode(raw map[string]json.RawMessage) (core.Settings, error) {
	settings := core.DefaultSettings()
	if len(raw) == 0 {
		return settings, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return settings, fmt.Errorf("encoding stored settings: %w", err)
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return core.DefaultSettings(), fmt.Errorf("decoding stored settings: %w", err)
	}
	return settings.WithDefaults(), nil
}

// mergeInto overwrites the known fields of raw with settings.
func mergeInto(raw map[string]json.RawMessage, settings core.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	var known map[string]json.RawMessage
	if err := json.Unmarshal(data, &known); err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	for k, v := range known {
		raw[k] = v
	}
	return nil
}

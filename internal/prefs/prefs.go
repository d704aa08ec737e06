// Package prefs persists the settings folio changes while it runs. Today
// that is the color theme cycled with ctrl+t, kept in
// ~/.config/folio/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for folio.
type Prefs struct {
	Theme string `toml:"theme"`
}

// DefaultTheme is used when nothing usable is stored.
const DefaultTheme = "Nightfox"

const defaultPrefsPath = "~/.config/folio/prefs.toml"

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path. The stored theme is matched
// case-insensitively against known and stored under its canonical name;
// unknown or blank themes become DefaultTheme. An empty known accepts any
// non-blank theme.
//
// Load always returns usable Prefs. A missing file is not an error; an
// unreadable or malformed file returns the defaults together with the
// reason so the caller can log it.
func Load(path string, known []string) (Prefs, error) {
	p := Prefs{Theme: DefaultTheme}

	resolved, err := resolvePath(path)
	if err != nil {
		return p, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return p, fmt.Errorf("read prefs: %w", err)
	}

	var stored Prefs
	if err := toml.Unmarshal(data, &stored); err != nil {
		return p, fmt.Errorf("parse prefs %s: %w", resolved, err)
	}
	p.Theme = matchTheme(stored.Theme, known)
	return p, nil
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	p.Theme = strings.TrimSpace(p.Theme)
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func matchTheme(name string, known []string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultTheme
	}
	if len(known) == 0 {
		return name
	}
	for _, k := range known {
		if strings.EqualFold(k, name) {
			return k
		}
	}
	return DefaultTheme
}

func resolvePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultPrefsPath
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Profiles live in <root>/profiles/<label>.yaml, one per dictionary being
// built (typically one per target language). The active label is kept in
// <root>/current_profile.

var ErrNoConfig = errors.New("no profile selected")

func ConfigRoot() string {
	if dir := os.Getenv("WIKIDICT_HOME"); dir != "" {
		return dir
	}

	// Windows
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, "wikidict")
	}

	// Linux/macOS XDG
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wikidict")
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "wikidict")
}

func ProfilesDir() string {
	return filepath.Join(ConfigRoot(), "profiles")
}

func ProfilePath(label string) string {
	return filepath.Join(ProfilesDir(), label+".yaml")
}

func currentLabelFile() string {
	return filepath.Join(ConfigRoot(), "current_profile")
}

func ensureDirs() error {
	return os.MkdirAll(ProfilesDir(), 0755)
}

func CurrentLabel() (string, error) {
	b, err := os.ReadFile(currentLabelFile())
	if os.IsNotExist(err) {
		return "", ErrNoConfig
	}
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(b)), nil
}

func ActiveConfigPath() (string, error) {
	label, err := CurrentLabel()
	if err != nil {
		return "", err
	}
	if label == "" {
		return "", ErrNoConfig
	}

	path := ProfilePath(label)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("active profile %q: %w", label, err)
	}

	return path, nil
}

type ProfileInfo struct {
	Label  string
	Path   string
	Active bool
}

func ListProfiles() ([]ProfileInfo, error) {
	entries, err := os.ReadDir(ProfilesDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	active, _ := CurrentLabel()
	var out []ProfileInfo

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".yaml" {
			continue
		}

		label := strings.TrimSuffix(name, ".yaml")
		out = append(out, ProfileInfo{
			Label:  label,
			Path:   filepath.Join(ProfilesDir(), name),
			Active: label == active,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func SwitchProfile(label string) error {
	if strings.TrimSpace(label) == "" {
		return errors.New("label cannot be empty")
	}
	if err := ensureDirs(); err != nil {
		return err
	}

	if _, err := os.Stat(ProfilePath(label)); err != nil {
		return fmt.Errorf("profile %q does not exist", label)
	}

	return os.WriteFile(currentLabelFile(), []byte(label), 0644)
}

// CreateProfile writes the default configuration for language under label.
// An existing profile is never overwritten.
func CreateProfile(label, language string) (string, error) {
	if strings.TrimSpace(label) == "" {
		return "", errors.New("label cannot be empty")
	}
	if err := ensureDirs(); err != nil {
		return "", err
	}

	path := ProfilePath(label)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("profile %q already exists", label)
	}

	cfg := DefaultConfig()
	if language != "" {
		cfg.Language = language
		cfg.RawDB = "raw_" + strings.ToLower(language) + ".db"
		cfg.DictDB = strings.ToLower(language) + ".db"
	}

	if err := SaveYAML(cfg, path); err != nil {
		return "", err
	}

	return path, nil
}

// RemoveProfile deletes a profile. The active one is only removed with
// force, and the active marker is cleared with it.
func RemoveProfile(label string, force bool) error {
	path := ProfilePath(label)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("profile %q does not exist", label)
	}

	active, _ := CurrentLabel()
	if label == active && !force {
		return fmt.Errorf("profile %q is active, use --force to remove it", label)
	}

	if err := os.Remove(path); err != nil {
		return err
	}

	if label == active {
		if err := os.Remove(currentLabelFile()); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func RenameProfile(oldLabel, newLabel string) error {
	if strings.TrimSpace(newLabel) == "" {
		return errors.New("label cannot be empty")
	}

	oldPath, newPath := ProfilePath(oldLabel), ProfilePath(newLabel)
	if _, err := os.Stat(oldPath); err != nil {
		return fmt.Errorf("profile %q does not exist", oldLabel)
	}
	if _, err := os.Stat(newPath); err == nil {
		return fmt.Errorf("profile %q already exists", newLabel)
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return err
	}

	if active, _ := CurrentLabel(); active == oldLabel {
		return os.WriteFile(currentLabelFile(), []byte(newLabel), 0644)
	}
	return nil
}

// ResetProfile rewrites a profile with the defaults, keeping its language
// and database files.
func ResetProfile(label string) (string, error) {
	path := ProfilePath(label)
	cur, err := loadYAML(path)
	if err != nil {
		return "", fmt.Errorf("profile %q: %w", label, err)
	}

	cfg := DefaultConfig()
	cfg.Language = cur.Language
	cfg.RawDB = cur.RawDB
	cfg.DictDB = cur.DictDB

	return path, SaveYAML(cfg, path)
}

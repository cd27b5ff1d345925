package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"inferd/internal/common/fsutil"
)

// settingsBase is the file stem looked for in each model directory.
const settingsBase = "model-settings"

// LoadDir scans a directory for model settings and returns them in a stable
// order. Each immediate subdirectory may carry one model-settings.{json,yaml,
// yml,toml} file; settings files directly in dir are accepted too. A model
// whose settings omit a name takes its directory (or file stem) name.
func LoadDir(dir string) ([]ModelSettings, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var out []ModelSettings
	for _, e := range entries {
		if e.IsDir() {
			sub := filepath.Join(abs, e.Name())
			path, ok := findSettingsFile(sub)
			if !ok {
				continue
			}
			s, err := LoadSettings(path)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
			if s.Name == "" {
				s.Name = e.Name()
			}
			out = append(out, s)
			continue
		}
		if !isSettingsFile(e.Name()) {
			continue
		}
		path := filepath.Join(abs, e.Name())
		s, err := LoadSettings(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		if s.Name == "" {
			s.Name = strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		}
		out = append(out, s)
	}
	return out, nil
}

func findSettingsFile(dir string) (string, bool) {
	for _, ext := range []string{".json", ".yaml", ".yml", ".toml"} {
		p := filepath.Join(dir, settingsBase+ext)
		if fsutil.PathExists(p) {
			return p, true
		}
	}
	return "", false
}

func isSettingsFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range []string{".json", ".yaml", ".yml", ".toml"} {
		if lower == settingsBase+ext {
			return true
		}
	}
	return false
}

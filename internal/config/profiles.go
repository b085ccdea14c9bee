package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ScriptBoard/internal/logging"
)

const (
	// EnvProfilesPath names an explicit profiles file.
	EnvProfilesPath = "SCRIPTBOARD_PROFILES"
	// ProfilesFileName is looked up next to the executable and under config/.
	ProfilesFileName = "profiles.json"

	DefaultHost       = "127.0.0.1"
	DefaultEditorPort = 45454
	DefaultRunnerPort = 45455
)

// Profile is a named pair of editor and runner endpoints.
type Profile struct {
	Name       string `json:"name"`
	EditorHost string `json:"editorHost"`
	EditorPort uint16 `json:"editorPort"`
	RunnerHost string `json:"runnerHost"`
	RunnerPort uint16 `json:"runnerPort"`
}

func (p Profile) Valid() bool {
	return p.Name != "" && p.EditorPort != 0 && p.RunnerPort != 0
}

// DefaultProfile is used whenever nothing usable was loaded.
func DefaultProfile() Profile {
	return Profile{
		Name:       "Localhost",
		EditorHost: DefaultHost,
		EditorPort: DefaultEditorPort,
		RunnerHost: DefaultHost,
		RunnerPort: DefaultRunnerPort,
	}
}

// Profiles is the read-only set loaded at startup. It always holds at least
// one profile.
type Profiles struct {
	list []Profile
	// Source is the file the profiles came from, empty for the built-in default.
	Source string
}

// All returns the profiles in file order.
func (p *Profiles) All() []Profile {
	return append([]Profile(nil), p.list...)
}

func (p *Profiles) Names() []string {
	names := make([]string, len(p.list))
	for i, profile := range p.list {
		names[i] = profile.Name
	}
	return names
}

func (p *Profiles) First() Profile { return p.list[0] }

// ByName finds a profile ignoring case, falling back to DefaultProfile.
func (p *Profiles) ByName(name string) Profile {
	for _, profile := range p.list {
		if strings.EqualFold(profile.Name, name) {
			return profile
		}
	}
	return DefaultProfile()
}

// Load reads the first existing candidate file. It never fails: a missing or
// unusable file yields the default profile, and bad entries are skipped.
func Load(explicit string, log *slog.Logger) *Profiles {
	if log == nil {
		log = logging.NewNop()
	}
	path := FindProfilesPath(explicit)
	if path == "" {
		log.Debug("No profiles file found, using default profile")
		return &Profiles{list: []Profile{DefaultProfile()}}
	}

	list, err := LoadFile(path)
	if err != nil {
		log.Warn("Ignoring profiles file", "path", path, "error", err)
		return &Profiles{list: []Profile{DefaultProfile()}}
	}
	if len(list) == 0 {
		log.Warn("Profiles file has no valid profiles", "path", path)
		return &Profiles{list: []Profile{DefaultProfile()}}
	}
	log.Info("Loaded profiles", "path", path, "count", len(list))
	return &Profiles{list: list, Source: path}
}

// profileEntry mirrors one JSON object; pointers tell missing from zero.
type profileEntry struct {
	Name       *string `json:"name"`
	EditorHost *string `json:"editorHost"`
	EditorPort *int    `json:"editorPort"`
	RunnerHost *string `json:"runnerHost"`
	RunnerPort *int    `json:"runnerPort"`
}

// LoadFile parses a profiles file, returning only the valid entries.
func LoadFile(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Profiles []json.RawMessage `json:"profiles"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var out []Profile
	for _, raw := range doc.Profiles {
		profile, err := parseEntry(raw)
		if err != nil || !profile.Valid() {
			continue
		}
		out = append(out, profile)
	}
	return out, nil
}

var errPortRange = errors.New("port out of range")

func parseEntry(raw json.RawMessage) (Profile, error) {
	var e profileEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Profile{}, err
	}
	p := DefaultProfile()
	p.Name = ""
	if e.Name != nil {
		p.Name = strings.TrimSpace(*e.Name)
	}
	if e.EditorHost != nil {
		p.EditorHost = strings.TrimSpace(*e.EditorHost)
	}
	if e.RunnerHost != nil {
		p.RunnerHost = strings.TrimSpace(*e.RunnerHost)
	}
	for _, port := range []struct {
		in  *int
		out *uint16
	}{{e.EditorPort, &p.EditorPort}, {e.RunnerPort, &p.RunnerPort}} {
		if port.in == nil {
			continue
		}
		if *port.in < 0 || *port.in > 65535 {
			return Profile{}, errPortRange
		}
		*port.out = uint16(*port.in)
	}
	return p, nil
}

// CandidatePaths lists where profiles are looked for, in order.
func CandidatePaths(explicit string) []string {
	var paths []string
	if explicit != "" {
		paths = append(paths, explicit)
	}
	if env := os.Getenv(EnvProfilesPath); env != "" {
		paths = append(paths, env)
	}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(dir, ProfilesFileName),
			filepath.Join(dir, "config", ProfilesFileName),
			filepath.Join(dir, "..", "config", ProfilesFileName),
			filepath.Join(dir, "..", "..", "config", ProfilesFileName),
		)
	}
	return append(paths, filepath.Join("config", ProfilesFileName))
}

// FindProfilesPath returns the first candidate that exists, or "".
func FindProfilesPath(explicit string) string {
	for _, path := range CandidatePaths(explicit) {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

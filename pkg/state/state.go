// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package state

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/regexrules/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// SchemaVersion is written to every state file
const SchemaVersion = "1"

// SortMode orders rule and ruleset names in listings and pickers
type SortMode string

const (
	SortAlphabetical SortMode = "alphabetical"
	SortRecent       SortMode = "recent"
)

// DefaultSortMode is used until the user picks one
const DefaultSortMode = SortRecent

// ParseSortMode validates a sort mode name
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case SortAlphabetical:
		return SortAlphabetical, nil
	case SortRecent:
		return SortRecent, nil
	default:
		return "", errors.Errorf("unknown sort mode %q (want %s or %s)", s, SortAlphabetical, SortRecent)
	}
}

// Usage records when a rule or ruleset was last invoked and how often
type Usage struct {
	// Timestamp is milliseconds since the Unix epoch
	Timestamp int64 `json:"timestamp"`
	Count     int   `json:"count"`
}

// Time returns the timestamp as a time.Time
func (u Usage) Time() time.Time {
	return time.UnixMilli(u.Timestamp)
}

// State is the persisted document
type State struct {
	SchemaVersion string           `json:"schema_version"`
	SortMode      SortMode         `json:"sort_mode,omitempty"`
	Usage         map[string]Usage `json:"usage"`
}

// 🗂️ Manager owns the state file. It is safe for concurrent use.
type Manager struct {
	path string
	now  func() time.Time

	mu    sync.Mutex
	state State
}

// DefaultPath returns the state file location under the user config directory
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Errorf("finding user config dir: %w", err)
	}
	return filepath.Join(dir, "regexrules", "state.json"), nil
}

// 📂 Load reads the state file at path. A missing file yields empty state;
// nothing is written until the first Save.
func Load(ctx context.Context, path string) (*Manager, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading state")

	m := &Manager{
		path: path,
		now:  time.Now,
		state: State{
			SchemaVersion: SchemaVersion,
			Usage:         map[string]Usage{},
		},
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return nil, errors.Errorf("reading state: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return m, nil
	}

	var st State
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&st); err != nil {
		return nil, errors.Errorf("parsing state %s: %w", path, err)
	}
	if st.SchemaVersion != "" && st.SchemaVersion != SchemaVersion {
		return nil, errors.Errorf("unsupported state schema version %q in %s", st.SchemaVersion, path)
	}
	if st.SortMode != "" {
		if _, err := ParseSortMode(string(st.SortMode)); err != nil {
			return nil, errors.Errorf("parsing state %s: %w", path, err)
		}
	}

	st.SchemaVersion = SchemaVersion
	if st.Usage == nil {
		st.Usage = map[string]Usage{}
	}
	m.state = st
	return m, nil
}

// Path returns the state file location
func (m *Manager) Path() string {
	return m.path
}

// 💾 Save writes the state file atomically
func (m *Manager) Save(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked(ctx)
}

func (m *Manager) saveLocked(ctx context.Context) error {
	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return errors.Errorf("encoding state: %w", err)
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Errorf("creating state directory: %w", err)
	}

	if err := status.New(dir).WriteFileAtomic(ctx, filepath.Base(m.path), append(data, '\n')); err != nil {
		return errors.Errorf("writing state: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", m.path).Int("entries", len(m.state.Usage)).Msg("saved state")
	return nil
}

// 📊 Record bumps the usage of name and saves. Usage is keyed by bare name,
// so a rule and a ruleset with the same name count together.
func (m *Manager) Record(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.state.Usage[name]
	u.Timestamp = m.now().UnixMilli()
	u.Count++
	m.state.Usage[name] = u

	return m.saveLocked(ctx)
}

// Usage returns the usage of name
func (m *Manager) Usage(name string) (Usage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.state.Usage[name]
	return u, ok
}

// SortMode returns the active sort mode
func (m *Manager) SortMode() SortMode {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.SortMode == "" {
		return DefaultSortMode
	}
	return m.state.SortMode
}

// SetSortMode changes the sort mode and saves
func (m *Manager) SetSortMode(ctx context.Context, mode SortMode) error {
	if _, err := ParseSortMode(string(mode)); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.SortMode = mode
	return m.saveLocked(ctx)
}

// 🔀 Sort returns names ordered by the active sort mode. Recent order puts the
// most recently used first and never-used names last, ties alphabetical.
func (m *Manager) Sort(names []string) []string {
	return m.SortBy(m.SortMode(), names)
}

// SortBy orders names by mode without changing the stored sort mode
func (m *Manager) SortBy(mode SortMode, names []string) []string {
	m.mu.Lock()
	usage := make(map[string]Usage, len(names))
	for _, n := range names {
		if u, ok := m.state.Usage[n]; ok {
			usage[n] = u
		}
	}
	m.mu.Unlock()

	out := append([]string(nil), names...)
	sort.SliceStable(out, func(i, j int) bool {
		if mode == SortRecent {
			ui, iok := usage[out[i]]
			uj, jok := usage[out[j]]
			switch {
			case iok && !jok:
				return true
			case !iok && jok:
				return false
			case iok && jok && ui.Timestamp != uj.Timestamp:
				return ui.Timestamp > uj.Timestamp
			}
		}
		return alphabeticalLess(out[i], out[j])
	})
	return out
}

func alphabeticalLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/username/booking-form/internal/calendar"
	"github.com/username/booking-form/pkg/dateutil"
)

const monthLayout = "2006-01"

// State is the picker state persisted between CLI invocations
type State struct {
	Cursor    string `json:"cursor,omitempty"`   // YYYY-MM
	Selected  string `json:"selected,omitempty"` // YYYY-MM-DD
	Time      string `json:"time,omitempty"`     // HH:MM
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Manager loads and saves the session file
type Manager struct {
	stateFile string
	state     *State
	logger    *zap.Logger
	now       func() time.Time
}

// NewManager creates a new session manager
func NewManager(stateFile string, logger *zap.Logger) *Manager {
	return &Manager{
		stateFile: stateFile,
		state:     &State{},
		logger:    logger,
		now:       time.Now,
	}
}

// Load reads the session file; a missing file yields an empty session
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			m.state = &State{}
			return nil
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to parse state file: %w", err)
	}

	m.state = &state
	m.logger.Debug("Session loaded",
		zap.String("cursor", state.Cursor),
		zap.String("selected", state.Selected),
		zap.String("time", state.Time))

	return nil
}

// Save writes the session file, creating its directory if needed
func (m *Manager) Save() error {
	m.state.UpdatedAt = m.now().Format(time.RFC3339)

	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if dir := filepath.Dir(m.stateFile); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	if err := os.WriteFile(m.stateFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	m.logger.Debug("Session saved",
		zap.String("cursor", m.state.Cursor),
		zap.String("selected", m.state.Selected))

	return nil
}

// State returns the current session
func (m *Manager) State() *State {
	return m.state
}

// Restore rebuilds an engine at now from the session. Stored cursors before
// today's month are clamped; a selection that does not parse is dropped.
func (m *Manager) Restore(now time.Time) *calendar.Engine {
	engine := calendar.NewEngine(now)
	loc := now.Location()

	if m.state.Cursor != "" {
		if cursor, err := dateutil.ParseMonth(m.state.Cursor, loc); err == nil {
			engine.JumpTo(cursor)
		} else {
			m.logger.Warn("Ignoring invalid session cursor",
				zap.String("cursor", m.state.Cursor),
				zap.Error(err))
		}
	}

	if m.state.Selected != "" {
		if selected, err := dateutil.ParseISODate(m.state.Selected, loc); err == nil {
			engine.Select(selected)
		} else {
			m.logger.Warn("Ignoring invalid session selection",
				zap.String("selected", m.state.Selected),
				zap.Error(err))
		}
	}

	return engine
}

// Capture copies the engine's cursor and selection into the session
func (m *Manager) Capture(engine *calendar.Engine) {
	m.state.Cursor = engine.Cursor().Format(monthLayout)
	if selected, ok := engine.Selected(); ok {
		m.state.Selected = dateutil.ISODate(selected)
	} else {
		m.state.Selected = ""
		m.state.Time = ""
	}
}

// SetTime records the chosen slot
func (m *Manager) SetTime(label string) {
	m.state.Time = label
}

// Reset clears the session
func (m *Manager) Reset() {
	m.state = &State{}
}

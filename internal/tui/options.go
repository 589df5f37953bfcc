package tui

import "github.com/evanschultz/weekgrid/internal/planner"

// Logger receives diagnostics from the running program. The console is
// owned by the TUI, so implementations should write elsewhere.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// UIConfig holds item label settings.
type UIConfig struct {
	LabelField     string
	ShowTimeFields bool
}

// KeyConfig holds configurable key overrides; blank values keep defaults.
type KeyConfig struct {
	NewTodo  string
	MarkDone string
	Details  string
	CopyID   string
}

type Option func(*Model)

func DefaultUIConfig() UIConfig {
	return UIConfig{LabelField: "name"}
}

func WithUIConfig(cfg UIConfig) Option {
	return func(m *Model) {
		if cfg.LabelField != "id" {
			cfg.LabelField = "name"
		}
		m.ui = cfg
	}
}

func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyConfig(cfg)
	}
}

// WithLayout replaces the grid geometry. Invalid layouts keep the default.
func WithLayout(layout planner.Layout) Option {
	return func(m *Model) {
		if layout.Validate() != nil {
			return
		}
		m.grid = planner.NewGrid(layout)
		m.drag = planner.NewController(m.grid)
	}
}

func WithLogger(logger Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.log = logger
		}
	}
}

// WithStorageError records why storage could not be opened. The model then
// runs without a service and reports err once on load.
func WithStorageError(err error) Option {
	return func(m *Model) {
		m.storageErr = err
	}
}

// WithClipboard overrides the clipboard writer used by the copy-id key.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}

// nopLogger drops every entry.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

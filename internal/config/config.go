package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	charmLog "github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	Grid     GridConfig     `toml:"grid"`
	UI       UIConfig       `toml:"ui"`
	Keys     KeyConfig      `toml:"keys"`
	Server   ServerConfig   `toml:"server"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// GridConfig sizes the day grid and the two buckets in terminal cells.
type GridConfig struct {
	Rows         int `toml:"rows"`
	Cols         int `toml:"cols"`
	CellWidth    int `toml:"cell_width"`
	CellHeight   int `toml:"cell_height"`
	BucketWidth  int `toml:"bucket_width"`
	BucketHeight int `toml:"bucket_height"`
}

type UIConfig struct {
	LabelField     string `toml:"label_field"` // name | id
	ShowTimeFields bool   `toml:"show_time_fields"`
}

type KeyConfig struct {
	NewTodo  string `toml:"new_todo"`
	MarkDone string `toml:"mark_done"`
	Details  string `toml:"details"`
	CopyID   string `toml:"copy_id"`
}

type ServerConfig struct {
	Bind        string `toml:"bind"`
	APIEndpoint string `toml:"api_endpoint"`
	MCPEndpoint string `toml:"mcp_endpoint"`
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".weekgrid/log",
			},
		},
		Grid: GridConfig{
			Rows:         7,
			Cols:         7,
			CellWidth:    30,
			CellHeight:   10,
			BucketWidth:  60,
			BucketHeight: 32,
		},
		UI: UIConfig{
			LabelField:     "name",
			ShowTimeFields: true,
		},
		Keys: KeyConfig{
			NewTodo:  "ctrl+n",
			MarkDone: "x",
			Details:  "i",
			CopyID:   "y",
		},
		Server: ServerConfig{
			Bind:        "127.0.0.1:5437",
			APIEndpoint: "/api/v1",
			MCPEndpoint: "/mcp",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	c.Database.Path = strings.TrimSpace(c.Database.Path)
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if _, err := charmLog.ParseLevel(strings.TrimSpace(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	gridFields := []struct {
		name  string
		value int
	}{
		{"grid.rows", c.Grid.Rows},
		{"grid.cols", c.Grid.Cols},
		{"grid.cell_width", c.Grid.CellWidth},
		{"grid.cell_height", c.Grid.CellHeight},
		{"grid.bucket_width", c.Grid.BucketWidth},
		{"grid.bucket_height", c.Grid.BucketHeight},
	}
	for _, f := range gridFields {
		if f.value <= 0 {
			return fmt.Errorf("%s must be > 0", f.name)
		}
	}
	// A day cell needs both borders and one item slot.
	if c.Grid.CellHeight < 3 || c.Grid.BucketHeight < 3 {
		return errors.New("grid.cell_height and grid.bucket_height must be >= 3")
	}

	switch strings.TrimSpace(strings.ToLower(c.UI.LabelField)) {
	case "", "name", "id":
	default:
		return fmt.Errorf("invalid ui.label_field: %q", c.UI.LabelField)
	}

	keys := map[string]string{
		"keys.new_todo":  c.Keys.NewTodo,
		"keys.mark_done": c.Keys.MarkDone,
		"keys.details":   c.Keys.Details,
		"keys.copy_id":   c.Keys.CopyID,
	}
	seen := map[string]string{}
	for _, name := range []string{"keys.new_todo", "keys.mark_done", "keys.details", "keys.copy_id"} {
		key := strings.TrimSpace(keys[name])
		if key == "" {
			return fmt.Errorf("%s is required", name)
		}
		if other, ok := seen[key]; ok {
			return fmt.Errorf("%s duplicates %s: %q", name, other, key)
		}
		seen[key] = name
	}

	for name, endpoint := range map[string]string{
		"server.api_endpoint": c.Server.APIEndpoint,
		"server.mcp_endpoint": c.Server.MCPEndpoint,
	} {
		if !strings.HasPrefix(strings.TrimSpace(endpoint), "/") {
			return fmt.Errorf("%s must start with '/': %q", name, endpoint)
		}
	}
	if strings.TrimSpace(c.Server.Bind) == "" {
		return errors.New("server.bind is required")
	}

	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

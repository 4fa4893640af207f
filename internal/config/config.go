package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store drivers accepted in store.driver.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

type Config struct {
	DataDir   string `json:"data_dir"`
	LogLevel  string `json:"log_level"`
	AdminCode string `json:"admin_code"`
	HTTP      struct {
		Listen         string   `json:"listen"`
		AllowedOrigins []string `json:"allowed_origins"`
	} `json:"http"`
	Store struct {
		Driver string `json:"driver"`
		Path   string `json:"path"`
	} `json:"store"`
	Snapshot struct {
		Schedule string `json:"schedule"`
		Keep     int    `json:"keep"`
	} `json:"snapshot"`
}

// DefaultPath is where the CLI looks for its config file.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".retroboard", "config.json")
}

func defaults() *Config {
	cfg := &Config{
		DataDir:  filepath.Join(os.Getenv("HOME"), ".retroboard"),
		LogLevel: "info",
	}
	cfg.HTTP.Listen = ":3000"
	cfg.HTTP.AllowedOrigins = []string{"*"}
	cfg.Store.Driver = DriverFile
	cfg.Snapshot.Keep = 24
	return cfg
}

func Load(path string) (*Config, error) {
	cfg := defaults()

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if port := os.Getenv("PORT"); port != "" {
		cfg.HTTP.Listen = ":" + port
	}
	if code := os.Getenv("RETRO_ADMIN_CODE"); code != "" {
		cfg.AdminCode = code
	}
	if dir := os.Getenv("RETRO_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if level := os.Getenv("RETRO_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverFile, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("invalid store.driver %q (want %s, %s or %s)", c.Store.Driver, DriverFile, DriverSQLite, DriverMemory)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.Snapshot.Keep < 0 {
		return fmt.Errorf("snapshot.keep must not be negative")
	}
	return nil
}

// StorePath resolves where the board document lives for the configured driver.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	if c.Store.Driver == DriverSQLite {
		return filepath.Join(c.DataDir, "board.db")
	}
	return filepath.Join(c.DataDir, "board.json")
}

// Save writes cfg to path atomically.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// ToMap converts cfg into its generic JSON map form.
func ToMap(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListValues returns every setting as a flat dotted-key map.
func ListValues(cfg *Config, mask bool) (map[string]any, error) {
	m, err := ToMap(cfg)
	if err != nil {
		return nil, err
	}
	flat := Flatten(m)
	if mask {
		flat = MaskSecrets(flat)
	}
	return flat, nil
}

// GetValue loads the config at path and returns the value at a dotted key.
func GetValue(path, key string) (any, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	flat, err := ListValues(cfg, false)
	if err != nil {
		return nil, err
	}
	v, ok := flat[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return v, nil
}

// SetValue rewrites one dotted key in an existing config file. Keys that hold
// a string keep the raw text; other keys take the value as JSON when it
// parses, otherwise as a plain string. The file is left untouched when the
// result would not load.
func SetValue(path, key, raw string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	flat := Flatten(m)

	value, err := parseValue(flat, key, raw)
	if err != nil {
		return err
	}
	flat[key] = value

	out, err := json.MarshalIndent(Unflatten(flat), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	out = append(out, '\n')

	candidate := defaults()
	if err := json.Unmarshal(out, candidate); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := candidate.Validate(); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return writeAtomic(path, out)
}

func parseValue(current map[string]any, key, raw string) (any, error) {
	if _, ok := current[key].(string); ok {
		return raw, nil
	}
	typed, err := ToMap(defaults())
	if err != nil {
		return nil, err
	}
	if _, ok := Flatten(typed)[key].(string); ok {
		return raw, nil
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return raw, nil
	}
	return value, nil
}

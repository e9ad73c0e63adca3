package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the dupcheck configuration file.
type Config struct {
	BaseDir  string        `toml:"base_dir"`
	LogDir   string        `toml:"log_dir"`
	LogLevel string        `toml:"log_level"` // "debug", "info", "warn" or "error"
	Scan     ScanConfig    `toml:"scan"`
	Journal  JournalConfig `toml:"journal"`
	Console  ConsoleConfig `toml:"console"`
}

// ScanConfig holds scan defaults; command-line flags override them.
type ScanConfig struct {
	Verify        bool     `toml:"verify"`
	HashAlgorithm string   `toml:"hash_algorithm"`
	BlockSize     int      `toml:"block_size"` // verification read size in bytes
	IncludeHidden bool     `toml:"include_hidden"`
	Ignore        []string `toml:"ignore"`
}

// JournalConfig selects where scan history is kept.
// The Type field determines which other fields are relevant.
type JournalConfig struct {
	Type    string `toml:"type"`               // "sqlite", "memory" or "none"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// ConsoleConfig controls terminal output.
type ConsoleConfig struct {
	Lines int    `toml:"lines"`
	Color string `toml:"color"` // "auto", "always" or "never"
}

// NewConfig returns the defaults rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		LogLevel: "info",
		Scan: ScanConfig{
			HashAlgorithm: "md5",
			BlockSize:     1 << 20,
		},
		Journal: JournalConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Console: ConsoleConfig{
			Lines: 12,
			Color: "auto",
		},
	}
}

// fillDefaults sets every zero-valued setting from NewConfig(c.BaseDir).
func (c *Config) fillDefaults(baseDir string) {
	if c.BaseDir == "" {
		c.BaseDir = baseDir
	}
	d := NewConfig(c.BaseDir)
	if c.LogDir == "" {
		c.LogDir = d.LogDir
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Scan.HashAlgorithm == "" {
		c.Scan.HashAlgorithm = d.Scan.HashAlgorithm
	}
	if c.Scan.BlockSize <= 0 {
		c.Scan.BlockSize = d.Scan.BlockSize
	}
	if c.Journal.Type == "" {
		c.Journal = d.Journal
	}
	if c.Journal.Type == "sqlite" && c.Journal.DataDir == "" {
		c.Journal.DataDir = d.Journal.DataDir
	}
	if c.Console.Lines <= 0 {
		c.Console.Lines = d.Console.Lines
	}
	if c.Console.Color == "" {
		c.Console.Color = d.Console.Color
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from path as written, without defaults.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := (&Manager{}).Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads path and fills unset values with defaults rooted at baseDir.
// A missing file yields the defaults.
func Load(path, baseDir string) (*Config, error) {
	cfg, err := ReadFromFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewConfig(baseDir), nil
	}
	if err != nil {
		return nil, err
	}
	cfg.fillDefaults(baseDir)
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := (&Manager{}).Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to path. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}

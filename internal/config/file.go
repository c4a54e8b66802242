package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mmynk/tripledger/internal/ledger"
)

// FileConfig holds ledgerctl preferences.
type FileConfig struct {
	Database DatabaseConfig `toml:"database"`
	Ledger   LedgerConfig   `toml:"ledger"`
	Output   OutputConfig   `toml:"output"`
}

// DatabaseConfig points ledgerctl at a database file.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LedgerConfig overrides the settlement knobs.
type LedgerConfig struct {
	Tolerance float64 `toml:"tolerance"`
	Places    int     `toml:"places"`
}

// OutputConfig holds rendering preferences.
type OutputConfig struct {
	Color bool `toml:"color"`
	// Actor is stamped on transfers created by ledgerctl reconcile.
	Actor string `toml:"actor,omitempty"`
}

// DefaultFileConfig returns the defaults used when no file exists.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		Database: DatabaseConfig{Path: "./data/tripledger.db"},
		Ledger: LedgerConfig{
			Tolerance: ledger.DefaultTolerance,
			Places:    int(ledger.DefaultPlaces),
		},
		Output: OutputConfig{Color: true},
	}
}

// LedgerConfig returns the settlement configuration.
func (f FileConfig) LedgerConfig() ledger.Config {
	return ledger.Config{Tolerance: f.Ledger.Tolerance, Places: int32(f.Ledger.Places)}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tripledger")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tripledger")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// LoadFile reads the config file at path, returning defaults if it doesn't
// exist.
func LoadFile(path string) (FileConfig, error) {
	cfg := DefaultFileConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// SaveFile writes cfg to path.
func SaveFile(path string, cfg FileConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

package util

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Configuration carries build metadata and the resolved runtime settings.
type Configuration struct {
	Version   string
	BuildDate string
	Commit    string
	RulesPath string
}

// DatabaseProfile is one named connection in the config file.
type DatabaseProfile struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

// FileConfig is the optional TOML config file. Flags override its log
// settings; database profiles are only reachable through it.
type FileConfig struct {
	LogLevel  string                     `toml:"log_level"`
	LogFile   string                     `toml:"log_file"`
	Databases map[string]DatabaseProfile `toml:"databases"`
}

func LoadFile(path string) (*FileConfig, error) {
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &cfg, nil
}

// Database resolves a named profile.
func (c *FileConfig) Database(name string) (DatabaseProfile, error) {
	profile, ok := c.Databases[name]
	if !ok {
		return DatabaseProfile{}, fmt.Errorf("no database profile named %q", name)
	}
	return profile, nil
}

/*
Package config manages TOML config for markserve services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/markserve/markserve/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Search   SearchConfig   `toml:"search"`
	Frecency FrecencyConfig `toml:"frecency"`
	Host     HostConfig     `toml:"host"`
	Server   ServerConfig   `toml:"server"`
	CLI      CliConfig      `toml:"cli"`
}

// SearchConfig has ranking and fuzzy-index options.
type SearchConfig struct {
	ScoreThreshold float64 `toml:"score_threshold"`
	MaxResults     int     `toml:"max_results"`
	TitleWeight    float64 `toml:"title_weight"`
	URLWeight      float64 `toml:"url_weight"`
	SummaryWeight  float64 `toml:"summary_weight"`
	TagWeight      float64 `toml:"tag_weight"`
}

// FrecencyConfig holds the importance-score tunables.
type FrecencyConfig struct {
	HalfLifeDays    float64 `toml:"half_life_days"`
	BaseWeight      float64 `toml:"base_weight"`
	ProtectionDays  float64 `toml:"protection_days"`
	ProtectionFloor int     `toml:"protection_floor"`
}

// HostConfig controls the worker execution context.
type HostConfig struct {
	TimeoutMS int  `toml:"timeout_ms"`
	QueueSize int  `toml:"queue_size"`
	Sync      bool `toml:"sync"`
}

// ServerConfig has IPC server related options.
type ServerConfig struct {
	MaxLimit int `toml:"max_limit"`
	MinQuery int `toml:"min_query"`
	MaxQuery int `toml:"max_query"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int `toml:"default_limit"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "markserve")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "markserve")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/markserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			ScoreThreshold: 0.3,
			MaxResults:     50,
			TitleWeight:    1.0,
			URLWeight:      0.8,
			SummaryWeight:  0.6,
			TagWeight:      0.4,
		},
		Frecency: FrecencyConfig{
			HalfLifeDays:    30,
			BaseWeight:      10,
			ProtectionDays:  7,
			ProtectionFloor: 30,
		},
		Host: HostConfig{
			TimeoutMS: 10000,
			QueueSize: 32,
			Sync:      false,
		},
		Server: ServerConfig{
			MaxLimit: 100,
			MinQuery: 1,
			MaxQuery: 120,
		},
		CLI: CliConfig{
			DefaultLimit: 20,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.Validate()
	return config, nil
}

// tryPartialParse attempts to parse a TOML file section by section
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if searchSection, ok := utils.ExtractSection(tempConfig, "search"); ok {
		extractSearchConfig(searchSection, &config.Search)
	}
	if frecencySection, ok := utils.ExtractSection(tempConfig, "frecency"); ok {
		extractFrecencyConfig(frecencySection, &config.Frecency)
	}
	if hostSection, ok := utils.ExtractSection(tempConfig, "host"); ok {
		extractHostConfig(hostSection, &config.Host)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	config.Validate()
	return config, nil
}

// Validate repairs values a hand-edited file can break. The field-weight
// ordering (title > url > summary > tags) is an engine invariant, so a bad
// ordering reverts all four weights to defaults.
func (c *Config) Validate() {
	def := DefaultConfig()
	s := &c.Search
	if s.ScoreThreshold <= 0 || s.ScoreThreshold >= 1 {
		s.ScoreThreshold = def.Search.ScoreThreshold
	}
	if s.MaxResults <= 0 {
		s.MaxResults = def.Search.MaxResults
	}
	weightsOK := s.TitleWeight > s.URLWeight && s.URLWeight > s.SummaryWeight &&
		s.SummaryWeight > s.TagWeight && s.TagWeight > 0 && s.TitleWeight <= 1
	if !weightsOK {
		log.Warnf("Field weights must satisfy title > url > summary > tags in (0,1]. Reverting to defaults.")
		s.TitleWeight = def.Search.TitleWeight
		s.URLWeight = def.Search.URLWeight
		s.SummaryWeight = def.Search.SummaryWeight
		s.TagWeight = def.Search.TagWeight
	}

	if c.Frecency.HalfLifeDays <= 0 {
		c.Frecency.HalfLifeDays = def.Frecency.HalfLifeDays
	}
	if c.Frecency.ProtectionDays < 0 {
		c.Frecency.ProtectionDays = def.Frecency.ProtectionDays
	}
	if c.Host.TimeoutMS <= 0 {
		c.Host.TimeoutMS = def.Host.TimeoutMS
	}
	if c.Host.QueueSize <= 0 {
		c.Host.QueueSize = def.Host.QueueSize
	}
}

// extractSearchConfig extracts search configuration from a map
func extractSearchConfig(data map[string]any, search *SearchConfig) {
	if val, ok := utils.ExtractFloat(data, "score_threshold"); ok {
		search.ScoreThreshold = val
	}
	if val, ok := utils.ExtractInt64(data, "max_results"); ok {
		search.MaxResults = val
	}
	if val, ok := utils.ExtractFloat(data, "title_weight"); ok {
		search.TitleWeight = val
	}
	if val, ok := utils.ExtractFloat(data, "url_weight"); ok {
		search.URLWeight = val
	}
	if val, ok := utils.ExtractFloat(data, "summary_weight"); ok {
		search.SummaryWeight = val
	}
	if val, ok := utils.ExtractFloat(data, "tag_weight"); ok {
		search.TagWeight = val
	}
}

// extractFrecencyConfig extracts frecency configuration from a map
func extractFrecencyConfig(data map[string]any, frecency *FrecencyConfig) {
	if val, ok := utils.ExtractFloat(data, "half_life_days"); ok {
		frecency.HalfLifeDays = val
	}
	if val, ok := utils.ExtractFloat(data, "base_weight"); ok {
		frecency.BaseWeight = val
	}
	if val, ok := utils.ExtractFloat(data, "protection_days"); ok {
		frecency.ProtectionDays = val
	}
	if val, ok := utils.ExtractInt64(data, "protection_floor"); ok {
		frecency.ProtectionFloor = val
	}
}

// extractHostConfig extracts host configuration from a map
func extractHostConfig(data map[string]any, host *HostConfig) {
	if val, ok := utils.ExtractInt64(data, "timeout_ms"); ok {
		host.TimeoutMS = val
	}
	if val, ok := utils.ExtractInt64(data, "queue_size"); ok {
		host.QueueSize = val
	}
	if val, ok := utils.ExtractBool(data, "sync"); ok {
		host.Sync = val
	}
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "min_query"); ok {
		server.MinQuery = val
	}
	if val, ok := utils.ExtractInt64(data, "max_query"); ok {
		server.MaxQuery = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

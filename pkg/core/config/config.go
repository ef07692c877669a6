package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/mathcfg/foundation/core/error"
	mdwlog "github.com/msto63/mathcfg/foundation/core/log"
)

// EnvConfigPath names the environment variable holding the config file path
const EnvConfigPath = "MATHCFG_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Parser  ParserConfig  `toml:"parser" yaml:"parser"`
	Display DisplayConfig `toml:"display" yaml:"display"`
	History HistoryConfig `toml:"history" yaml:"history"`
	Server  ServerConfig  `toml:"server" yaml:"server"`

	// Source is the file the configuration was loaded from, empty for defaults
	Source string `toml:"-" yaml:"-"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name" yaml:"name"`
	Environment string `toml:"environment" yaml:"environment"`
	DataDir     string `toml:"data_dir" yaml:"data_dir"`
	LogLevel    string `toml:"log_level" yaml:"log_level"`
	LogFormat   string `toml:"log_format" yaml:"log_format"`
}

// ParserConfig holds expression parser limits and modes
type ParserConfig struct {
	MaxInputLength  int  `toml:"max_input_length" yaml:"max_input_length"`
	MaxDepth        int  `toml:"max_depth" yaml:"max_depth"`
	RequireOperator bool `toml:"require_operator" yaml:"require_operator"`
}

// DisplayConfig holds parse tree output settings
type DisplayConfig struct {
	Format     string `toml:"format" yaml:"format"`
	Indent     string `toml:"indent" yaml:"indent"`
	ShowDepth  bool   `toml:"show_depth" yaml:"show_depth"`
	ShowTokens bool   `toml:"show_tokens" yaml:"show_tokens"`
	NoColor    bool   `toml:"no_color" yaml:"no_color"`
}

// HistoryConfig holds parse history settings
type HistoryConfig struct {
	Enabled   bool     `toml:"enabled" yaml:"enabled"`
	Path      string   `toml:"path" yaml:"path"`
	MaxAge    Duration `toml:"max_age" yaml:"max_age"`
	ListLimit int      `toml:"list_limit" yaml:"list_limit"`
}

// ServerConfig holds WebSocket service settings
type ServerConfig struct {
	Port           int      `toml:"port" yaml:"port"`
	Host           string   `toml:"host" yaml:"host"`
	ReadTimeout    Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout" yaml:"write_timeout"`
	MaxMessageSize int64    `toml:"max_message_size" yaml:"max_message_size"`
	AllowedOrigins []string `toml:"allowed_origins" yaml:"allowed_origins"`
	RecordHistory  bool     `toml:"record_history" yaml:"record_history"`
}

// Display formats accepted by DisplayConfig.Format
var displayFormats = []string{"tree", "compact", "json", "yaml"}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML formats the duration as a string
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns the configuration used when no file is found
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.expandEnvVars()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, mdwerror.Newf("config file not found: %s", path).WithCode(mdwerror.CodeMissingConfig)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to read config").WithCode(mdwerror.CodeConfigError)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		_, err = toml.Decode(string(data), &cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&cfg); errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return nil, mdwerror.Newf("unsupported config format %q: use .toml, .yaml or .yml", ext).
			WithCode(mdwerror.CodeInvalidConfig)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeConfigError).
			WithDetail("path", path)
	}

	// Apply defaults
	cfg.applyDefaults()

	// Expand environment variables in paths
	cfg.expandEnvVars()

	cfg.Source = path
	return &cfg, nil
}

// LoadFromEnv loads configuration from the file named by MATHCFG_CONFIG or
// from the first default location that exists. Without any file the
// defaults are returned.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return Load(path)
	}

	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// DefaultPaths lists the config locations searched by LoadFromEnv
func DefaultPaths() []string {
	paths := []string{
		"./configs/mathcfg.toml",
		"./mathcfg.toml",
		"./mathcfg.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "mathcfg", "config.toml"))
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "mathcfg"
	}
	if c.General.Environment == "" {
		c.General.Environment = "development"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "$HOME/.local/share/mathcfg"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "console"
	}

	// Parser
	if c.Parser.MaxInputLength == 0 {
		c.Parser.MaxInputLength = 4096
	}
	if c.Parser.MaxDepth == 0 {
		c.Parser.MaxDepth = 4096
	}

	// Display
	if c.Display.Format == "" {
		c.Display.Format = "tree"
	}
	if c.Display.Indent == "" {
		c.Display.Indent = "  "
	}

	// History
	if c.History.MaxAge.Duration == 0 {
		c.History.MaxAge.Duration = 30 * 24 * time.Hour
	}
	if c.History.ListLimit == 0 {
		c.History.ListLimit = 20
	}

	// Server
	if c.Server.Port == 0 {
		c.Server.Port = 8085
	}
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 60 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 10 * time.Second
	}
	if c.Server.MaxMessageSize == 0 {
		c.Server.MaxMessageSize = 16 * 1024
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.History.Path = os.ExpandEnv(c.History.Path)
}

// Validate rejects values no component can work with
func (c *Config) Validate() error {
	var problems []string

	if _, err := mdwlog.ParseLevel(c.General.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := mdwlog.ParseFormat(c.General.LogFormat); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Parser.MaxInputLength < 0 {
		problems = append(problems, fmt.Sprintf("parser.max_input_length must not be negative: %d", c.Parser.MaxInputLength))
	}
	if c.Parser.MaxDepth < 0 {
		problems = append(problems, fmt.Sprintf("parser.max_depth must not be negative: %d", c.Parser.MaxDepth))
	}
	if !isDisplayFormat(c.Display.Format) {
		problems = append(problems, fmt.Sprintf("display.format %q is not one of %s", c.Display.Format, strings.Join(displayFormats, ", ")))
	}
	if c.History.ListLimit < 0 {
		problems = append(problems, fmt.Sprintf("history.list_limit must not be negative: %d", c.History.ListLimit))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port out of range: %d", c.Server.Port))
	}
	if c.Server.MaxMessageSize < 0 {
		problems = append(problems, fmt.Sprintf("server.max_message_size must not be negative: %d", c.Server.MaxMessageSize))
	}

	if len(problems) == 0 {
		return nil
	}
	return mdwerror.Newf("invalid configuration: %s", strings.Join(problems, "; ")).
		WithCode(mdwerror.CodeInvalidConfig).
		WithDetail("problems", len(problems))
}

func isDisplayFormat(format string) bool {
	for _, f := range displayFormats {
		if f == format {
			return true
		}
	}
	return false
}

// HistoryPath returns the SQLite file of the parse history
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(c.General.DataDir, "history.db")
}

// ServerAddress returns the listen address of the WebSocket service
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

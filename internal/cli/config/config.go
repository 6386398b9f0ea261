package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/metaed-lang/metaed/internal/core/builder"
	"github.com/metaed-lang/metaed/internal/core/version"
	"github.com/metaed-lang/metaed/internal/plugin"
)

// FileName is the config file name searched for, without extension.
const FileName = "metaed"

// EnvPrefix prefixes environment overrides, e.g. METAED_DATA_STANDARD_VERSION.
const EnvPrefix = "METAED"

// Config represents the MetaEd configuration
type Config struct {
	DataStandardVersion string            `mapstructure:"data_standard_version"`
	Projects            []ProjectConfig   `mapstructure:"projects"`
	Plugins             map[string]string `mapstructure:"plugins"`
	Log                 LogConfig         `mapstructure:"log"`
	Server              ServerConfig      `mapstructure:"server"`

	// Dir is the directory of the config file; relative project paths resolve against it.
	Dir string `mapstructure:"-"`
}

// ProjectConfig describes one project to compile
type ProjectConfig struct {
	Namespace          string `mapstructure:"namespace"`
	ProjectName        string `mapstructure:"project_name"`
	ProjectVersion     string `mapstructure:"project_version"`
	ProjectExtension   string `mapstructure:"project_extension"`
	ProjectDescription string `mapstructure:"project_description"`
	Path               string `mapstructure:"path"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig represents the inspector server configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads metaed.yml (or .yaml) from the working directory, or the file at
// path when path is set. A missing file in the working directory is not an
// error; defaults and environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("data_standard_version", "5.0.0")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("server.port", 8740)
	v.SetDefault("server.host", "localhost")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Dir = "."
	if used := v.ConfigFileUsed(); used != "" {
		cfg.Dir = filepath.Dir(used)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ProjectSpecs converts the configured projects for the builder. Relative
// paths resolve against the config file's directory.
func (c *Config) ProjectSpecs() []builder.ProjectSpec {
	specs := make([]builder.ProjectSpec, 0, len(c.Projects))
	for _, p := range c.Projects {
		path := p.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.Dir, path)
		}
		projectName := p.ProjectName
		if projectName == "" {
			projectName = p.Namespace
		}
		specs = append(specs, builder.ProjectSpec{
			Namespace:          p.Namespace,
			ProjectName:        projectName,
			ProjectVersion:     p.ProjectVersion,
			ProjectExtension:   p.ProjectExtension,
			ProjectDescription: p.ProjectDescription,
			Path:               path,
		})
	}
	return specs
}

// NewLogger builds a zap logger from the log settings. Console output goes to
// stderr so JSON results on stdout stay clean.
func (c *Config) NewLogger(verbose bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	if verbose && level > zapcore.DebugLevel {
		level = zapcore.DebugLevel
	}

	var zc zap.Config
	if c.Log.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}

// InProject checks if the current directory holds a MetaEd config file
func InProject() bool {
	for _, name := range []string{FileName + ".yml", FileName + ".yaml"} {
		if _, err := os.Stat(name); err == nil {
			return true
		}
	}
	return false
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if !version.IsValid(cfg.DataStandardVersion) {
		return fmt.Errorf("data_standard_version must be a semantic version, got: %q", cfg.DataStandardVersion)
	}

	seen := make(map[string]bool)
	for i, p := range cfg.Projects {
		if p.Namespace == "" {
			return fmt.Errorf("projects[%d]: namespace is required", i)
		}
		if p.Path == "" {
			return fmt.Errorf("projects[%d] (%s): path is required", i, p.Namespace)
		}
		if seen[p.Namespace] {
			return fmt.Errorf("projects[%d]: duplicate namespace %s", i, p.Namespace)
		}
		seen[p.Namespace] = true
	}

	known := plugin.Names()
	for name, v := range cfg.Plugins {
		if !slices.Contains(known, name) {
			return fmt.Errorf("plugins.%s is not a known plugin (known: %s)", name, strings.Join(known, ", "))
		}
		if !version.IsValid(v) {
			return fmt.Errorf("plugins.%s must be a semantic version, got: %q", name, v)
		}
	}

	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if cfg.Log.Format != "console" && cfg.Log.Format != "json" {
		return fmt.Errorf("log.format must be 'console' or 'json', got: %s", cfg.Log.Format)
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	// No config file: defaults apply
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if cfg.DataStandardVersion != "5.0.0" {
		t.Errorf("expected default data standard 5.0.0, got %s", cfg.DataStandardVersion)
	}
	if cfg.Server.Port != 8740 {
		t.Errorf("expected default port 8740, got %d", cfg.Server.Port)
	}
	if cfg.Server.Addr() != "localhost:8740" {
		t.Errorf("expected addr localhost:8740, got %s", cfg.Server.Addr())
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
	if len(cfg.Projects) != 0 {
		t.Errorf("expected no projects, got %d", len(cfg.Projects))
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	configContent := `
data_standard_version: 3.3.1-b
projects:
  - namespace: EdFi
    project_name: Ed-Fi
    project_version: 3.3.1-b
    path: model/edfi
  - namespace: Sample
    project_extension: SAMPLE
    path: /abs/sample
plugins:
  edfi-odsapi: 5.2.0
log:
  level: debug
  format: json
server:
  port: 9000
`
	if err := os.WriteFile("metaed.yml", []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.DataStandardVersion != "3.3.1-b" {
		t.Errorf("expected data standard 3.3.1-b, got %s", cfg.DataStandardVersion)
	}
	if cfg.Plugins["edfi-odsapi"] != "5.2.0" {
		t.Errorf("expected odsapi 5.2.0, got %v", cfg.Plugins)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}

	specs := cfg.ProjectSpecs()
	if len(specs) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(specs))
	}
	if specs[0].ProjectName != "Ed-Fi" || specs[0].Path != filepath.Join(".", "model/edfi") {
		t.Errorf("unexpected first project: %+v", specs[0])
	}
	if specs[1].ProjectName != "Sample" {
		t.Errorf("expected project name to default to namespace, got %s", specs[1].ProjectName)
	}
	if specs[1].Path != "/abs/sample" {
		t.Errorf("expected absolute path kept, got %s", specs[1].Path)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "custom.yaml")
	content := "projects:\n  - namespace: EdFi\n    path: edfi\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Dir != tmpDir {
		t.Errorf("expected dir %s, got %s", tmpDir, cfg.Dir)
	}
	if got := cfg.ProjectSpecs()[0].Path; got != filepath.Join(tmpDir, "edfi") {
		t.Errorf("expected path relative to config file, got %s", got)
	}

	if _, err := Load(filepath.Join(tmpDir, "missing.yml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	t.Setenv("METAED_DATA_STANDARD_VERSION", "4.0.0")
	t.Setenv("METAED_SERVER_PORT", "9100")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.DataStandardVersion != "4.0.0" {
		t.Errorf("expected env data standard 4.0.0, got %s", cfg.DataStandardVersion)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected env port 9100, got %d", cfg.Server.Port)
	}
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DataStandardVersion: "3.3.0",
			Projects:            []ProjectConfig{{Namespace: "EdFi", Path: "edfi"}},
			Log:                 LogConfig{Level: "info", Format: "console"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "bad data standard",
			mutate:  func(c *Config) { c.DataStandardVersion = "three" },
			wantErr: "data_standard_version",
		},
		{
			name:    "missing namespace",
			mutate:  func(c *Config) { c.Projects[0].Namespace = "" },
			wantErr: "namespace is required",
		},
		{
			name:    "missing path",
			mutate:  func(c *Config) { c.Projects[0].Path = "" },
			wantErr: "path is required",
		},
		{
			name: "duplicate namespace",
			mutate: func(c *Config) {
				c.Projects = append(c.Projects, ProjectConfig{Namespace: "EdFi", Path: "other"})
			},
			wantErr: "duplicate namespace EdFi",
		},
		{
			name:    "bad plugin version",
			mutate:  func(c *Config) { c.Plugins = map[string]string{"edfi-odsapi": "latest"} },
			wantErr: "plugins.edfi-odsapi",
		},
		{
			name:    "unknown plugin",
			mutate:  func(c *Config) { c.Plugins = map[string]string{"edfi-sql": "7.1.0"} },
			wantErr: "plugins.edfi-sql is not a known plugin",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: "log.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "warn", Format: "json"}}
	logger, err := cfg.NewLogger(true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !logger.Core().Enabled(-1) {
		t.Error("expected verbose to enable debug level")
	}

	cfg.Log.Level = "nope"
	if _, err := cfg.NewLogger(false); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestInProject(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	if InProject() {
		t.Error("expected false without metaed.yml")
	}
	os.WriteFile("metaed.yaml", []byte(""), 0644)
	if !InProject() {
		t.Error("expected true with metaed.yaml")
	}
}

package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

const coreModel = `
domainEntities:
  - name: Student
    properties:
      - kind: string
        name: StudentUniqueId
        identity: true
        maxLength: "32"
      - kind: descriptor
        name: Sex
        optional: true
descriptors:
  - name: Sex
`

// writeProject lays out a config file and one core model directory and
// returns the config path.
func writeProject(t *testing.T, model string, extra string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "edfi"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "edfi", "core.metaed.yaml"), []byte(model), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := "data_standard_version: 3.3.0\nprojects:\n  - namespace: EdFi\n    project_name: Ed-Fi\n    path: edfi\n" + extra
	path := filepath.Join(dir, "metaed.yml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--no-color"))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "metaed" {
		t.Errorf("expected Use to be 'metaed', got %s", cmd.Use)
	}
	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}

	for _, expected := range []string{"version", "build", "inspect", "serve", "plugins", "completion"} {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected command %s to be registered", expected)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	defer func() { Version, GitCommit = "dev", "unknown" }()

	out, _, err := run(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"MetaEd version: 1.0.0-test", "Git commit: abc123", "Go version: go"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestBuildJSON(t *testing.T) {
	path := writeProject(t, coreModel, "")

	out, _, err := run(t, "build", "--json", "-c", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var report BuildReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if !report.Success {
		t.Errorf("expected success, got %+v", report)
	}
	if report.RunID == "" {
		t.Error("expected a run id")
	}
	if len(report.Namespaces) != 1 || report.Namespaces[0].Name != "EdFi" {
		t.Fatalf("unexpected namespaces: %+v", report.Namespaces)
	}
	if report.Namespaces[0].Entities != 2 || report.Namespaces[0].Tables == 0 {
		t.Errorf("unexpected counts: %+v", report.Namespaces[0])
	}
	if len(report.Plugins) != 4 {
		t.Errorf("expected 4 plugin results, got %d", len(report.Plugins))
	}
}

func TestBuildText(t *testing.T) {
	path := writeProject(t, coreModel, "")

	out, _, err := run(t, "build", "-v", "-c", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"edfi-ods-relational", "ColumnEnhancer", "EdFi", "Build completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestBuildFailsOnValidationErrors(t *testing.T) {
	path := writeProject(t, coreModel+"widgets:\n  - name: A\n", "")

	out, _, err := run(t, "build", "--json", "-c", path)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}

	var report BuildReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if report.Success {
		t.Error("expected failure")
	}
	if len(report.ValidationFailures) != 1 {
		t.Fatalf("expected one failure, got %+v", report.ValidationFailures)
	}

	_, stderr, err := run(t, "build", "-c", path)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	for _, want := range []string{"core.metaed.yaml:", "BUILD FAILED", "1 validation error(s)"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("expected %q in stderr:\n%s", want, stderr)
		}
	}
}

func TestBuildConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  string
		want string
	}{
		{"no projects", "data_standard_version: 3.3.0\n", "no projects configured"},
		{"bad version", "data_standard_version: three\n", "data_standard_version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "metaed.yml")
			os.WriteFile(path, []byte(tt.cfg), 0o644)

			_, stderr, err := run(t, "build", "-c", path)
			if !errors.Is(err, errReported) {
				t.Fatalf("expected errReported, got %v", err)
			}
			if !strings.Contains(stderr, "CONFIGURATION ERROR") || !strings.Contains(stderr, tt.want) {
				t.Errorf("unexpected stderr:\n%s", stderr)
			}
		})
	}
}

func TestBuildMissingModelDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metaed.yml")
	os.WriteFile(path, []byte("projects:\n  - namespace: EdFi\n    path: nowhere\n"), 0o644)

	_, stderr, err := run(t, "build", "-c", path)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	if !strings.Contains(stderr, "BUILD FAILED") {
		t.Errorf("expected build failure, got:\n%s", stderr)
	}
}

func TestInspectTables(t *testing.T) {
	path := writeProject(t, coreModel, "")

	out, _, err := run(t, "inspect", "tables", "-c", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Table", "Student", "SexDescriptor"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestInspectTable(t *testing.T) {
	path := writeProject(t, coreModel, "")

	out, _, err := run(t, "inspect", "table", "Student", "-n", "EdFi", "-c", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"edfi.Student", "PK_Student", "StudentUniqueId", "string(32)", "FK_Student_SexDescriptor", "edfi.SexDescriptor"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	_, stderr, err := run(t, "inspect", "table", "Studnt", "-c", path)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	if !strings.Contains(stderr, "Did you mean: Student") {
		t.Errorf("expected suggestion, got:\n%s", stderr)
	}
}

func TestInspectUnknownNamespace(t *testing.T) {
	path := writeProject(t, coreModel, "")

	_, stderr, err := run(t, "inspect", "tables", "-n", "EdFy", "-c", path)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	if !strings.Contains(stderr, "NAMESPACE NOT FOUND") || !strings.Contains(stderr, "EdFi") {
		t.Errorf("unexpected stderr:\n%s", stderr)
	}
}

func TestInspectDomainModel(t *testing.T) {
	path := writeProject(t, coreModel, "")

	out, _, err := run(t, "inspect", "domain-model", "-c", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var definition struct {
		SchemaDefinition struct {
			LogicalName  string `json:"logicalName"`
			PhysicalName string `json:"physicalName"`
		} `json:"schemaDefinition"`
	}
	if err := json.Unmarshal([]byte(out), &definition); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if definition.SchemaDefinition.LogicalName != "Ed-Fi" || definition.SchemaDefinition.PhysicalName != "edfi" {
		t.Errorf("unexpected schema definition: %+v", definition.SchemaDefinition)
	}

	legacy := writeProject(t, coreModel, "plugins:\n  edfi-odsapi: 2.0.0\n")
	_, stderr, err := run(t, "inspect", "domain-model", "-c", legacy)
	if !errors.Is(err, errReported) || !strings.Contains(stderr, "No domain model for EdFi") {
		t.Errorf("expected missing domain model warning, got %v:\n%s", err, stderr)
	}
}

func TestInspectAssociationsAndAggregates(t *testing.T) {
	path := writeProject(t, coreModel, "")

	out, _, err := run(t, "inspect", "associations", "-c", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "FK_Student_SexDescriptor") || !strings.Contains(out, "OneToZeroOrMore") {
		t.Errorf("unexpected associations output:\n%s", out)
	}

	out, _, err = run(t, "inspect", "aggregates", "-c", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Student") {
		t.Errorf("unexpected aggregates output:\n%s", out)
	}
}

func TestPluginsCommand(t *testing.T) {
	path := writeProject(t, coreModel, "plugins:\n  edfi-odsapi: 5.2.0\n")

	out, _, err := run(t, "plugins", "-c", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected header, separator and 4 plugins, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[2], "edfi-unified") || !strings.HasPrefix(lines[5], "edfi-odsapi") {
		t.Errorf("unexpected order:\n%s", out)
	}
	if !strings.Contains(lines[5], "5.2.0") || !strings.Contains(lines[5], "edfi-ods-relational") {
		t.Errorf("expected override and dependency on odsapi line, got %q", lines[5])
	}
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "metaed") {
		t.Error("expected bash completion script for metaed")
	}
}

func TestResolveNamespaceDefaultsToCore(t *testing.T) {
	path := writeProject(t, coreModel, "")

	out, _, err := run(t, "inspect", "tables", "--json", "-c", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var tables []struct {
		Schema string `json:"schema"`
	}
	if err := json.Unmarshal([]byte(out), &tables); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, table := range tables {
		if table.Schema != "edfi" {
			t.Errorf("expected core tables only, got schema %s", table.Schema)
		}
	}
}

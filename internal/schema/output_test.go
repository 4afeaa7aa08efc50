package schema

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestConfigPath(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"models/mart", "models/mart/_mart.yml"},
		{"models/mart/", "models/mart/_mart.yml"},
		{"models/staging/core", "models/staging/core/_staging_core.yml"},
		{"/srv/project/models/staging/core", "/srv/project/models/staging/core/_staging_core.yml"},
		{"mart", "mart/_mart.yml"},
	}

	for _, tt := range tests {
		if got := filepath.ToSlash(ConfigPath(tt.location)); got != tt.want {
			t.Errorf("ConfigPath(%q) = %s, want %s", tt.location, got, tt.want)
		}
	}
}

func TestWriteOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "models", "mart")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create models dir: %v", err)
	}

	path, written, err := WriteOutput("version: 2\n", dir)
	if err != nil {
		t.Fatalf("WriteOutput() failed: %v", err)
	}
	if !written {
		t.Fatal("Expected the config file to be written")
	}
	if path != filepath.Join(dir, "_mart.yml") {
		t.Errorf("Unexpected path %s", path)
	}

	// Re-running must not overwrite
	path, written, err = WriteOutput("version: 3\n", dir)
	if err != nil {
		t.Fatalf("WriteOutput() failed on existing file: %v", err)
	}
	if written {
		t.Error("Expected existing config file to be skipped")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}
	if string(data) != "version: 2\n" {
		t.Errorf("Config file was overwritten: %q", data)
	}
}

func TestWriteOutputMissingDir(t *testing.T) {
	if _, _, err := WriteOutput("x", filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestListArtifacts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"orders.sql", "customers.sql", "customers.py", "stg.orders.sql", "_mart.yml", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "archive.sql"), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	tables, err := ListArtifacts(dir)
	if err != nil {
		t.Fatalf("ListArtifacts() failed: %v", err)
	}

	want := []string{"customers", "orders", "stg"}
	if !reflect.DeepEqual(tables, want) {
		t.Errorf("ListArtifacts() = %v, want %v", tables, want)
	}

	if _, err := ListArtifacts(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}

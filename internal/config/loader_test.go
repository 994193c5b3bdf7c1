package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/verdant/landplan/internal/schedule"
)

func writeConfig(t *testing.T, dir, name string, cfg *Config) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshaling config: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name          string
		globalConfig  *Config
		projectConfig *Config
		wantMode      string
		wantLimit     int
		wantDBPath    string
		wantTemplates int
	}{
		{
			name:      "No config files - returns defaults",
			wantMode:  "dependencies",
			wantLimit: 4,
		},
		{
			name:         "Global only - overrides mode",
			globalConfig: &Config{ProjectionMode: "position"},
			wantMode:     "position",
			wantLimit:    4,
		},
		{
			name:          "Project only - overrides limit",
			projectConfig: &Config{ConcurrencyLimit: 8},
			wantMode:      "dependencies",
			wantLimit:     8,
		},
		{
			name:          "Project overrides global",
			globalConfig:  &Config{DatabasePath: "/global/db.sqlite", ProjectionMode: "position"},
			projectConfig: &Config{DatabasePath: "/project/db.sqlite"},
			wantMode:      "position",
			wantLimit:     4,
			wantDBPath:    "/project/db.sqlite",
		},
		{
			name: "Templates accumulate across files",
			globalConfig: &Config{Templates: []*schedule.Template{
				{ID: "custom-a", Name: "Custom A"},
			}},
			projectConfig: &Config{Templates: []*schedule.Template{
				{ID: "custom-b", Name: "Custom B"},
			}},
			wantMode:      "dependencies",
			wantLimit:     4,
			wantTemplates: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()

			globalPath := ""
			if tt.globalConfig != nil {
				globalPath = writeConfig(t, tmpDir, "global.json", tt.globalConfig)
			}
			projectPath := ""
			if tt.projectConfig != nil {
				projectPath = writeConfig(t, tmpDir, "project.json", tt.projectConfig)
			}

			cfg, err := Load(globalPath, projectPath)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if cfg.ProjectionMode != tt.wantMode {
				t.Errorf("mode = %q, want %q", cfg.ProjectionMode, tt.wantMode)
			}
			if cfg.ConcurrencyLimit != tt.wantLimit {
				t.Errorf("concurrency limit = %d, want %d", cfg.ConcurrencyLimit, tt.wantLimit)
			}
			if tt.wantDBPath != "" && cfg.DatabasePath != tt.wantDBPath {
				t.Errorf("database path = %q, want %q", cfg.DatabasePath, tt.wantDBPath)
			}
			if len(cfg.Templates) != tt.wantTemplates {
				t.Errorf("templates = %d, want %d", len(cfg.Templates), tt.wantTemplates)
			}
		})
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	tmpDir := t.TempDir()

	// Create malformed JSON file
	globalPath := filepath.Join(tmpDir, "global.json")
	if err := os.WriteFile(globalPath, []byte("{invalid json"), 0644); err != nil {
		t.Fatalf("writing malformed config: %v", err)
	}

	// Load should return error
	if _, err := Load(globalPath, ""); err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

func TestLoad_MissingFilesNotError(t *testing.T) {
	// Load with non-existent paths should not error
	cfg, err := Load("/nonexistent/global.json", "/nonexistent/project.json")
	if err != nil {
		t.Fatalf("expected no error for missing files, got: %v", err)
	}

	// Should return defaults
	if cfg.ProjectionMode != "dependencies" {
		t.Errorf("mode = %q, want defaults", cfg.ProjectionMode)
	}
}

// TestConfigCatalog verifies custom templates override built-ins when the
// effective catalog is built.
func TestConfigCatalog(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Templates = []*schedule.Template{
		{ID: "lawn-renovation", Name: "Custom Lawn", Tasks: []schedule.TemplateTask{
			{Name: "Everything at once", DurationDays: 1},
		}},
	}

	cat := cfg.Catalog()
	tpl, err := cat.Get("lawn-renovation")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if tpl.Name != "Custom Lawn" {
		t.Errorf("override not applied, name = %q", tpl.Name)
	}
}

func TestConfigMode(t *testing.T) {
	cfg := &Config{ProjectionMode: "position"}
	if cfg.Mode() != schedule.ModePosition {
		t.Errorf("Mode() = %v, want position", cfg.Mode())
	}

	cfg = &Config{ProjectionMode: "bogus"}
	if cfg.Mode() != schedule.ModeDependencies {
		t.Errorf("unrecognized mode should fall back to dependencies")
	}
}

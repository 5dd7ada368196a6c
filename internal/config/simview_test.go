package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmptySimviewConfigDefaults(t *testing.T) {
	cfg := EmptySimviewConfig()

	if got := cfg.GetInputPath(); got != DefaultInputPath {
		t.Errorf("GetInputPath() = %q, want %q", got, DefaultInputPath)
	}
	if got := cfg.GetOutputPath(); got != DefaultOutputPath {
		t.Errorf("GetOutputPath() = %q, want %q", got, DefaultOutputPath)
	}
	if got := cfg.GetPlotDir(); got != DefaultPlotDir {
		t.Errorf("GetPlotDir() = %q, want %q", got, DefaultPlotDir)
	}
	if got := cfg.GetFormat(); got != "png" {
		t.Errorf("GetFormat() = %q, want png", got)
	}
	if cfg.GetWidthInches() != 14 || cfg.GetHeightInches() != 6 {
		t.Errorf("unexpected default size %vx%v", cfg.GetWidthInches(), cfg.GetHeightInches())
	}
	if cfg.GetHTML() {
		t.Error("GetHTML() should default to false")
	}
	if cfg.GetDBPath() != "" {
		t.Errorf("GetDBPath() = %q, want empty", cfg.GetDBPath())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty config should validate: %v", err)
	}
}

func TestLoadSimviewConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "simview.json")

	testJSON := `{
  "input_path": "/data/sim_input_data.dat",
  "output_path": "/data/output_results.dat",
  "format": "svg",
  "html": true,
  "db_path": "/data/runs.db"
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadSimviewConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if got := cfg.GetInputPath(); got != "/data/sim_input_data.dat" {
		t.Errorf("GetInputPath() = %q", got)
	}
	if got := cfg.GetOutputPath(); got != "/data/output_results.dat" {
		t.Errorf("GetOutputPath() = %q", got)
	}
	if got := cfg.GetFormat(); got != "svg" {
		t.Errorf("GetFormat() = %q, want svg", got)
	}
	if !cfg.GetHTML() {
		t.Error("GetHTML() = false, want true")
	}
	if got := cfg.GetDBPath(); got != "/data/runs.db" {
		t.Errorf("GetDBPath() = %q", got)
	}

	// Omitted fields keep defaults
	if got := cfg.GetPlotDir(); got != DefaultPlotDir {
		t.Errorf("GetPlotDir() = %q, want default %q", got, DefaultPlotDir)
	}
	if cfg.GetWidthInches() != DefaultWidthInches {
		t.Errorf("GetWidthInches() = %v, want default", cfg.GetWidthInches())
	}
}

func TestLoadSimviewConfig_ExampleFile(t *testing.T) {
	path := filepath.Join("..", "..", ExampleConfigPath)
	cfg, err := LoadSimviewConfig(path)
	if err != nil {
		t.Fatalf("example config should load: %v", err)
	}
	if cfg.GetInputPath() != DefaultInputPath || cfg.GetOutputPath() != DefaultOutputPath {
		t.Errorf("example config paths differ from defaults: %q %q", cfg.GetInputPath(), cfg.GetOutputPath())
	}
}

func TestLoadSimviewConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, content string) string {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"wrong extension", write("config.yaml", "{}"), ".json extension"},
		{"missing file", filepath.Join(tmpDir, "nope.json"), "failed to stat"},
		{"bad json", write("bad.json", "{not json"), "failed to parse"},
		{"bad format", write("format.json", `{"format": "gif"}`), "unsupported format"},
		{"empty input path", write("input.json", `{"input_path": ""}`), "input_path"},
		{"empty output path", write("output.json", `{"output_path": ""}`), "output_path"},
		{"negative width", write("width.json", `{"width_inches": -1}`), "width_inches"},
		{"zero height", write("height.json", `{"height_inches": 0}`), "height_inches"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSimviewConfig(tt.path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadSimviewConfig_TooLarge(t *testing.T) {
	p := filepath.Join(t.TempDir(), "big.json")
	data := []byte(`{"plot_dir": "` + strings.Repeat("a", 1024*1024) + `"}`)
	if err := os.WriteFile(p, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadSimviewConfig(p)
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected too large error, got %v", err)
	}
}

func TestSimviewConfigOverrides(t *testing.T) {
	cfg := EmptySimviewConfig()

	for field, value := range map[string]string{
		"input_path":  "in.dat",
		"output_path": "out.dat",
		"plot_dir":    "out/plots",
		"format":      "pdf",
		"db_path":     "runs.db",
	} {
		if err := cfg.SetString(field, value); err != nil {
			t.Fatalf("SetString(%q): %v", field, err)
		}
	}
	cfg.SetHTML(true)
	cfg.SetSize(8, 4)

	if cfg.GetInputPath() != "in.dat" || cfg.GetOutputPath() != "out.dat" {
		t.Errorf("paths not overridden: %q %q", cfg.GetInputPath(), cfg.GetOutputPath())
	}
	if cfg.GetPlotDir() != "out/plots" || cfg.GetFormat() != "pdf" || cfg.GetDBPath() != "runs.db" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if !cfg.GetHTML() || cfg.GetWidthInches() != 8 || cfg.GetHeightInches() != 4 {
		t.Errorf("html/size not applied")
	}
	if err := cfg.SetString("nonsense", "x"); err == nil {
		t.Error("expected error for unknown field")
	}
}

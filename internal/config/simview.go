package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ExampleConfigPath is the path to the example configuration shipped with the repo.
const ExampleConfigPath = "config/simview.example.json"

// Default values used when a field is omitted from the config file.
const (
	DefaultInputPath    = "sim_input_data.dat"
	DefaultOutputPath   = "output_results.dat"
	DefaultPlotDir      = "plots"
	DefaultFormat       = "png"
	DefaultWidthInches  = 14.0
	DefaultHeightInches = 6.0
)

// SupportedFormats lists the image formats the plot renderer can write.
var SupportedFormats = []string{"png", "svg", "pdf", "jpg", "tiff"}

// SimviewConfig holds the settings for a simview run.
// Fields are pointers so that a partial JSON file leaves the rest at
// their defaults; use the Get* methods to read effective values.
type SimviewConfig struct {
	// Record sources
	InputPath  *string `json:"input_path,omitempty"`
	OutputPath *string `json:"output_path,omitempty"`

	// Rendering
	PlotDir      *string  `json:"plot_dir,omitempty"`
	Format       *string  `json:"format,omitempty"`
	WidthInches  *float64 `json:"width_inches,omitempty"`
	HeightInches *float64 `json:"height_inches,omitempty"`
	HTML         *bool    `json:"html,omitempty"`

	// Optional sqlite run store; empty disables it.
	DBPath *string `json:"db_path,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }

// EmptySimviewConfig returns a SimviewConfig with all fields set to nil.
func EmptySimviewConfig() *SimviewConfig {
	return &SimviewConfig{}
}

// LoadSimviewConfig loads a SimviewConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
// Fields omitted from the JSON file keep their default values.
func LoadSimviewConfig(path string) (*SimviewConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySimviewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *SimviewConfig) Validate() error {
	if c.InputPath != nil && *c.InputPath == "" {
		return fmt.Errorf("input_path must not be empty")
	}
	if c.OutputPath != nil && *c.OutputPath == "" {
		return fmt.Errorf("output_path must not be empty")
	}

	if c.Format != nil && !isSupportedFormat(*c.Format) {
		return fmt.Errorf("unsupported format %q (want one of %v)", *c.Format, SupportedFormats)
	}

	if c.WidthInches != nil && *c.WidthInches <= 0 {
		return fmt.Errorf("width_inches must be positive, got %f", *c.WidthInches)
	}
	if c.HeightInches != nil && *c.HeightInches <= 0 {
		return fmt.Errorf("height_inches must be positive, got %f", *c.HeightInches)
	}

	return nil
}

// SetString overrides a string field by its JSON name. Used for flag overrides.
func (c *SimviewConfig) SetString(field, value string) error {
	switch field {
	case "input_path":
		c.InputPath = ptrString(value)
	case "output_path":
		c.OutputPath = ptrString(value)
	case "plot_dir":
		c.PlotDir = ptrString(value)
	case "format":
		c.Format = ptrString(value)
	case "db_path":
		c.DBPath = ptrString(value)
	default:
		return fmt.Errorf("unknown string field %q", field)
	}
	return nil
}

// SetHTML overrides the html field.
func (c *SimviewConfig) SetHTML(v bool) { c.HTML = ptrBool(v) }

// SetSize overrides the plot size in inches.
func (c *SimviewConfig) SetSize(width, height float64) {
	c.WidthInches = ptrFloat64(width)
	c.HeightInches = ptrFloat64(height)
}

// GetInputPath returns the input_path value or the default.
func (c *SimviewConfig) GetInputPath() string {
	if c.InputPath == nil {
		return DefaultInputPath
	}
	return *c.InputPath
}

// GetOutputPath returns the output_path value or the default.
func (c *SimviewConfig) GetOutputPath() string {
	if c.OutputPath == nil {
		return DefaultOutputPath
	}
	return *c.OutputPath
}

// GetPlotDir returns the plot_dir value or the default.
func (c *SimviewConfig) GetPlotDir() string {
	if c.PlotDir == nil || *c.PlotDir == "" {
		return DefaultPlotDir
	}
	return *c.PlotDir
}

// GetFormat returns the format value or the default.
func (c *SimviewConfig) GetFormat() string {
	if c.Format == nil || *c.Format == "" {
		return DefaultFormat
	}
	return *c.Format
}

// GetWidthInches returns the width_inches value or the default.
func (c *SimviewConfig) GetWidthInches() float64 {
	if c.WidthInches == nil {
		return DefaultWidthInches
	}
	return *c.WidthInches
}

// GetHeightInches returns the height_inches value or the default.
func (c *SimviewConfig) GetHeightInches() float64 {
	if c.HeightInches == nil {
		return DefaultHeightInches
	}
	return *c.HeightInches
}

// GetHTML returns the html value or the default (false).
func (c *SimviewConfig) GetHTML() bool {
	if c.HTML == nil {
		return false
	}
	return *c.HTML
}

// GetDBPath returns the db_path value; empty means no run store.
func (c *SimviewConfig) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}

func isSupportedFormat(format string) bool {
	for _, f := range SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}

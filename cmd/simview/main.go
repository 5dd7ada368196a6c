// Command simview decodes two simulation record files and plots them.
//
// Each line of a record file is 128 characters of '0'/'1', read as sixteen
// 8-bit unsigned integers. Lines that cannot be decoded become rows of
// zeros. Both files are flattened into sample sequences and written as
// separate line plots under a timestamped directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/simview/internal/config"
	"github.com/banshee-data/simview/internal/fsutil"
	"github.com/banshee-data/simview/internal/timeutil"
	"github.com/banshee-data/simview/internal/version"
)

type cliFlags struct {
	configPath  *string
	inputPath   *string
	outputPath  *string
	plotDir     *string
	format      *string
	width       *float64
	height      *float64
	html        *bool
	dbPath      *string
	verbose     *bool
	showVersion *bool
}

func registerFlags(fs *flag.FlagSet) *cliFlags {
	return &cliFlags{
		configPath:  fs.String("config", "", "Path to JSON config file (see "+config.ExampleConfigPath+")"),
		inputPath:   fs.String("input", config.DefaultInputPath, "Simulation input record file"),
		outputPath:  fs.String("output", config.DefaultOutputPath, "Simulation output record file"),
		plotDir:     fs.String("plot-dir", config.DefaultPlotDir, "Base directory for plot output"),
		format:      fs.String("format", config.DefaultFormat, "Plot image format (png, svg, pdf, jpg, tiff)"),
		width:       fs.Float64("width", config.DefaultWidthInches, "Plot width in inches"),
		height:      fs.Float64("height", config.DefaultHeightInches, "Plot height in inches"),
		html:        fs.Bool("html", false, "Also write an interactive HTML page with both charts"),
		dbPath:      fs.String("db", "", "Record decoded runs in this sqlite database"),
		verbose:     fs.Bool("verbose", false, "Log per-file fallback row counts"),
		showVersion: fs.Bool("version", false, "Print version and exit"),
	}
}

// loadConfig reads the config file if given, then applies flags that were
// set explicitly on the command line.
func loadConfig(fs *flag.FlagSet, f *cliFlags) (*config.SimviewConfig, error) {
	cfg := config.EmptySimviewConfig()
	if *f.configPath != "" {
		loaded, err := config.LoadSimviewConfig(*f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	var err error
	fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "input":
			err = cfg.SetString("input_path", *f.inputPath)
		case "output":
			err = cfg.SetString("output_path", *f.outputPath)
		case "plot-dir":
			err = cfg.SetString("plot_dir", *f.plotDir)
		case "format":
			err = cfg.SetString("format", *f.format)
		case "db":
			err = cfg.SetString("db_path", *f.dbPath)
		case "width":
			cfg.SetSize(*f.width, cfg.GetHeightInches())
		case "height":
			cfg.SetSize(cfg.GetWidthInches(), *f.height)
		case "html":
			cfg.SetHTML(*f.html)
		}
	})
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	log.SetPrefix("simview: ")

	flags := registerFlags(flag.CommandLine)
	flag.Parse()

	if *flags.showVersion {
		fmt.Println("simview", version.String())
		return
	}

	cfg, err := loadConfig(flag.CommandLine, flags)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	res, err := run(context.Background(), cfg, fsutil.OSFileSystem{}, timeutil.RealClock{}, *flags.verbose)
	if err != nil {
		log.Fatalf("%v", err)
	}

	for _, p := range res.Plots {
		fmt.Fprintln(os.Stdout, p)
	}
	if res.HTML != "" {
		fmt.Fprintln(os.Stdout, res.HTML)
	}
}

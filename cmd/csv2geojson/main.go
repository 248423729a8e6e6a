package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/egmsmap/internal/config"
	"github.com/woozymasta/egmsmap/internal/egms"
	"github.com/woozymasta/egmsmap/internal/geo"
	"github.com/woozymasta/egmsmap/internal/style"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Input      string `short:"i" long:"in"     description:"Input tile CSV path. Reads from stdin if empty"`
	Output     string `short:"o" long:"out"    description:"Output file path. Writes to stdout if empty"`
	Format     string `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Tile       string `short:"t" long:"tile"   description:"Tile name stored on each feature; defaults to the input file name"`
	CRS        string `long:"crs"              env:"PROJECT_CRS" description:"CRS of easting/northing columns" default:"EPSG:3035"`
	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" description:"Configuration file providing the hideout; built-in defaults when empty"`
	Styled     bool   `short:"s" long:"styled" description:"Emit rendered circle markers instead of a plain FeatureCollection"`
}

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	code, err := geo.ParseEPSG(opts.CRS)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: --crs: %v\n", err)
		os.Exit(1)
	}

	// Read Input
	var input io.Reader = os.Stdin
	tileName := opts.Tile
	if opts.Input != "" {
		f, err := os.Open(opts.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		input = f

		if tileName == "" {
			tileName = strings.TrimSuffix(filepath.Base(opts.Input), filepath.Ext(opts.Input))
		}
	}

	tile, err := egms.ReadTile(input, tileName, geo.NewProjector(code))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing tile: %v\n", err)
		os.Exit(1)
	}

	fc := geo.NewFeatureCollection(len(tile.Points))
	for _, p := range tile.Points {
		f, err := tile.Feature(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error converting point: %v\n", err)
			os.Exit(1)
		}
		fc.Features = append(fc.Features, f)
	}

	var out any = fc
	if opts.Styled {
		cfg := config.Default()
		if opts.ConfigFile != "" {
			if cfg, err = config.Load(opts.ConfigFile); err != nil {
				fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
				os.Exit(1)
			}
		}

		layer, err := style.Render(fc, cfg.Hideout, style.RenderOptions{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering markers: %v\n", err)
			os.Exit(1)
		}
		out = layer
	}

	outputData, err := marshal(out, opts.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, outputData, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully converted %d points to %s (format: %s)\n", len(fc.Features), opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}

// marshal encodes v as indented JSON or as YAML. Geometries only know
// GeoJSON, so YAML goes through a generic JSON round trip.
func marshal(v any, format string) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil || format != "yaml" {
		return data, err
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return yaml.Marshal(generic)
}

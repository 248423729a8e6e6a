package main

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/egmsmap/internal/config"
	"github.com/woozymasta/egmsmap/internal/geo"
	"github.com/woozymasta/egmsmap/internal/loader"
	"github.com/woozymasta/egmsmap/internal/logger"
	"github.com/woozymasta/egmsmap/internal/tiles"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string   `short:"c" long:"config"      env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	AOI         string   `short:"i" long:"aoi"         env:"AOI_FILE"    description:"GeoJSON area of interest; all tiles when empty"`
	Product     string   `short:"P" long:"product"     env:"PRODUCT"     description:"Product to download" default:"ortho"`
	Source      string   `short:"s" long:"source"      env:"TILE_SOURCE" description:"Override tile URL template ({product} {direction} {tile})"`
	Directions  []string `short:"D" long:"direction"   env:"DIRECTIONS"  description:"Directions to download; all configured when empty"`
	Limit       []string `short:"l" long:"limit"       env:"LIMIT_TILES" description:"Limit processing to specific tile names"`
	Concurrency int      `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Concurrency" default:"4"`
	Force       bool     `short:"f" long:"force"       description:"Force overwrite of existing files"`
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

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.Source != "" {
		cfg.TileSource = opts.Source
	}
	if cfg.TileSource == "" {
		log.Fatal().Msg("No tile source configured, set tile_source or --source")
	}
	if !cfg.HasProduct(opts.Product) {
		log.Fatal().Str("product", opts.Product).Strs("products", cfg.Products).Msg("Unknown product")
	}

	idx, err := tiles.Load(cfg.Directions)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load tile boundaries")
	}

	var aoi *geo.FeatureCollection
	if opts.AOI != "" {
		fc, err := geo.Load(opts.AOI)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load area of interest")
		}
		aoi = &fc
	}

	directions := opts.Directions
	if len(directions) == 0 {
		directions = idx.Directions()
	}

	client := &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
		Timeout: 10 * time.Minute,
	}

	for _, direction := range directions {
		names, err := tileNames(idx, direction, aoi, opts.Limit)
		if err != nil {
			log.Error().Err(err).Str("direction", direction).Msg("Failed to select tiles")
			continue
		}

		log.Info().
			Str("product", opts.Product).
			Str("direction", direction).
			Int("tiles_queued", len(names)).
			Msg("Starting loader")

		done := loader.Download(client, loader.Source{
			URLTemplate: cfg.TileSource,
			DataDir:     cfg.DataDir,
			Product:     opts.Product,
			Direction:   direction,
		}, names, opts.Concurrency, opts.Force)

		log.Info().
			Str("direction", direction).
			Int("tiles_ready", len(done)).
			Int("tiles_failed", len(names)-len(done)).
			Msg("Direction finished")
	}

	log.Info().Msg("Loader finished successfully")
}

// tileNames picks the tiles to fetch: AOI intersection or the whole boundary, narrowed by limit.
func tileNames(idx *tiles.Index, direction string, aoi *geo.FeatureCollection, limit []string) ([]string, error) {
	var (
		fc  geo.FeatureCollection
		err error
	)
	if aoi != nil {
		fc, err = idx.Intersect(direction, *aoi)
	} else {
		fc, err = idx.All(direction)
	}
	if err != nil {
		return nil, err
	}

	names := tiles.Names(fc)
	if len(limit) == 0 {
		return names, nil
	}

	available := make(map[string]bool, len(names))
	for _, n := range names {
		available[n] = true
	}

	seen := make(map[string]bool)
	filtered := make([]string, 0, len(limit))
	for _, n := range limit {
		if seen[n] {
			continue
		}
		seen[n] = true

		if !available[n] {
			log.Error().
				Str("tile", n).
				Str("direction", direction).
				Msg("Tile specified in --limit not found in selection")
			continue
		}
		filtered = append(filtered, n)
	}

	return filtered, nil
}

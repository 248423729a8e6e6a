package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/egmsmap/internal/config"
	"github.com/woozymasta/egmsmap/internal/egms"
	"github.com/woozymasta/egmsmap/internal/geo"
	"github.com/woozymasta/egmsmap/internal/logger"
	"github.com/woozymasta/egmsmap/internal/server"
	"github.com/woozymasta/egmsmap/internal/tiles"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"   env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Addr       string `short:"a" long:"addr"     env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	DataDir    string `short:"d" long:"data-dir" env:"DATA_DIR"       description:"Override data directory from config"`
	SourceCRS  string `long:"crs"                env:"PROJECT_CRS"    description:"Override source CRS of tile CSV files"`
	TileCache  int    `long:"tile-cache"         env:"TILE_CACHE"     description:"Number of parsed tiles kept in memory" default:"32"`
	Port       int    `short:"p" long:"port"     env:"LISTEN_PORT"    description:"Port to listen on"          default:"8050"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if opts.SourceCRS != "" {
		cfg.SourceCRS = opts.SourceCRS
		if err := cfg.Validate(); err != nil {
			log.Fatal().Err(err).Msg("Invalid source CRS")
		}
	}

	idx, err := tiles.Load(cfg.Directions)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load tile boundaries")
	}

	store := egms.NewStore(cfg.DataDir, geo.NewProjector(cfg.EPSG()))
	store.SetCapacity(opts.TileCache)

	srvCtx, err := server.NewServerContext(cfg, idx, store)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Str("data_dir", cfg.DataDir).
		Str("crs", cfg.SourceCRS).
		Msg("Web server started")

	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

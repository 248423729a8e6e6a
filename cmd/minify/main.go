package main

import (
	"os"
	"path/filepath"

	"github.com/woozymasta/egmsmap/assets"
	"github.com/woozymasta/egmsmap/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	OutDir string `short:"o" long:"out" env:"DIST_DIR" description:"Output directory for static files" default:"dist"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	m := assets.NewMinifier()

	page, err := assets.Build(m)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build index page")
	}

	icon, err := assets.MinifiedFavicon(m)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to minify favicon")
	}

	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create output directory")
	}

	files := map[string][]byte{
		"index.html":  page,
		"favicon.svg": icon,
	}
	for name, data := range files {
		path := filepath.Join(opts.OutDir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to write file")
		}
		log.Info().Str("path", path).Int("bytes", len(data)).Msg("File written")
	}

	log.Info().Msg("Minify done")
}

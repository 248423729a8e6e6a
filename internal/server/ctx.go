package server

import (
	"bytes"
	"fmt"

	"github.com/woozymasta/egmsmap/assets"
	"github.com/woozymasta/egmsmap/internal/colorscale"
	"github.com/woozymasta/egmsmap/internal/config"
	"github.com/woozymasta/egmsmap/internal/egms"
	"github.com/woozymasta/egmsmap/internal/tiles"

	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config    *config.Config
	Tiles     *tiles.Index
	Store     *egms.Store
	IndexHTML []byte
	Favicon   []byte
	Colorbar  []byte
}

// NewServerContext builds the page and the legend once and wires the data sources.
func NewServerContext(cfg *config.Config, idx *tiles.Index, store *egms.Store) (*ServerContext, error) {
	log.Info().
		Strs("products", cfg.Products).
		Strs("directions", idx.Directions()).
		Msg("Initializing server context")

	page, err := assets.Build(assets.NewMinifier())
	if err != nil {
		return nil, fmt.Errorf("build index page: %w", err)
	}

	scale, err := colorscale.New(cfg.Hideout.ColorScale)
	if err != nil {
		return nil, err
	}

	var legend bytes.Buffer
	err = scale.Domain(cfg.Hideout.Min, cfg.Hideout.Max).
		EncodeColorbar(&legend, cfg.Colorbar.Width, cfg.Colorbar.Height)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("index_bytes", len(page)).
		Int("colorbar_bytes", legend.Len()).
		Msg("Static content prepared")

	return &ServerContext{
		Config:    cfg,
		Tiles:     idx,
		Store:     store,
		IndexHTML: page,
		Favicon:   assets.Favicon,
		Colorbar:  legend.Bytes(),
	}, nil
}

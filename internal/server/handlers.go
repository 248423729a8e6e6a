// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"os"
	"strings"

	"github.com/woozymasta/egmsmap/internal/egms"
	"github.com/woozymasta/egmsmap/internal/geo"
	"github.com/woozymasta/egmsmap/internal/style"
	"github.com/woozymasta/egmsmap/internal/tiles"

	"github.com/rs/zerolog/log"
)

// maxBodySize bounds uploaded AOI documents.
const maxBodySize = 8 << 20

var errUnknownProduct = errors.New("unknown product")

type pointsResponse struct {
	style.MarkerLayer
	Message string   `json:"message"`
	Tiles   []string `json:"tiles"`
}

// HandleConfig serves the public part of the configuration.
func (s *ServerContext) HandleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Config)
}

// HandleFavicon serves the site icon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}
	serveBytes(w, r, s.IndexHTML, "text/html; charset=utf-8")
}

// HandleColorbar serves the legend image for the configured hideout.
func (s *ServerContext) HandleColorbar(w http.ResponseWriter, r *http.Request) {
	serveBytes(w, r, s.Colorbar, "image/webp")
}

// HandleTiles returns the boundary tiles intersecting the posted AOI.
func (s *ServerContext) HandleTiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	aoi, err := decodeAOI(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	fc, err := s.Tiles.Intersect(r.URL.Query().Get("direction"), aoi)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	_ = json.NewEncoder(w).Encode(fc)
}

// HandlePoints loads the measurement points inside the posted AOI and renders them as markers.
func (s *ServerContext) HandlePoints(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	q := r.URL.Query()
	product, direction := q.Get("product"), q.Get("direction")
	if !s.Config.HasProduct(product) {
		writeError(w, fmt.Errorf("%w: %q", errUnknownProduct, product))
		return
	}

	aoi, err := decodeAOI(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	boundary, err := s.Tiles.Intersect(direction, aoi)
	if err != nil {
		writeError(w, err)
		return
	}
	names := tiles.Names(boundary)

	points, err := s.Store.PointsInAOI(product, direction, names, aoi)
	if err != nil {
		writeError(w, err)
		return
	}

	layer, err := style.Render(points, s.Config.Hideout, style.RenderOptions{})
	if err != nil {
		writeError(w, err)
		return
	}

	log.Debug().
		Str("product", product).
		Str("direction", direction).
		Strs("tiles", names).
		Int("points", layer.Count).
		Msg("Points rendered")

	writeJSON(w, http.StatusOK, pointsResponse{
		MarkerLayer: layer,
		Tiles:       names,
		Message:     fmt.Sprintf("%d measurement points loaded from AOI", layer.Count),
	})
}

// HandleTimeSeries returns the displacement history of one measurement point.
func (s *ServerContext) HandleTimeSeries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	product := q.Get("product")
	if !s.Config.HasProduct(product) {
		writeError(w, fmt.Errorf("%w: %q", errUnknownProduct, product))
		return
	}

	series, err := s.Store.TimeSeries(product, q.Get("direction"), q.Get("tile"), q.Get("pid"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, series)
}

func decodeAOI(w http.ResponseWriter, r *http.Request) (geo.FeatureCollection, error) {
	return geo.Decode(http.MaxBytesReader(w, r.Body, maxBodySize))
}

// serveBytes writes an in-memory asset with a content hash ETag.
func serveBytes(w http.ResponseWriter, r *http.Request, body []byte, contentType string) {
	h := fnv.New64a()
	_, _ = h.Write(body)
	etag := fmt.Sprintf(`"%x"`, h.Sum64())

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}

// writeError maps domain errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &maxErr):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, tiles.ErrUnknownDirection),
		errors.Is(err, errUnknownProduct),
		errors.Is(err, geo.ErrNoFeatures),
		errors.Is(err, geo.ErrInvalidGeoJSON),
		errors.Is(err, egms.ErrInvalidName):
		status = http.StatusBadRequest
	case errors.Is(err, egms.ErrPointNotFound),
		errors.Is(err, os.ErrNotExist):
		status = http.StatusNotFound
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

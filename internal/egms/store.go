package egms

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/woozymasta/egmsmap/internal/geo"

	"github.com/rs/zerolog/log"
)

// ErrInvalidName is returned for product, direction or tile names that are not plain path elements.
var ErrInvalidName = errors.New("invalid name")

// Measurement is one dated displacement value.
type Measurement struct {
	Date     string  `json:"date" yaml:"date"`
	Velocity float64 `json:"velocity" yaml:"velocity"`
}

// DefaultCapacity is the number of parsed tiles a store keeps by default.
const DefaultCapacity = 32

// Store loads tiles from <dir>/<product>/<direction>/<tile>.csv and keeps them in memory.
// Different tiles load in parallel; concurrent requests for one tile share a single read.
type Store struct {
	proj     *geo.Projector
	entries  map[string]*tileEntry
	dir      string
	loaded   []string // load order of cached paths, oldest first
	capacity int
	mu       sync.Mutex
}

type tileEntry struct {
	tile *Tile
	err  error
	once sync.Once
}

// NewStore returns a store reading from dir that keeps up to DefaultCapacity tiles.
func NewStore(dir string, proj *geo.Projector) *Store {
	return &Store{
		dir:      dir,
		proj:     proj,
		entries:  make(map[string]*tileEntry),
		capacity: DefaultCapacity,
	}
}

// SetCapacity limits the number of cached tiles; n < 1 means 1.
func (s *Store) SetCapacity(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capacity = max(n, 1)
	s.evict()
}

// Path returns the CSV location of a tile.
func Path(dir, product, direction, tile string) string {
	return filepath.Join(dir, product, direction, tile+".csv")
}

// Tile returns a parsed tile, reading it on first use.
// Failed reads are not cached, so a tile downloaded later is picked up.
func (s *Store) Tile(product, direction, name string) (*Tile, error) {
	for _, part := range []string{product, direction, name} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, part)
		}
	}

	path := Path(s.dir, product, direction, name)

	s.mu.Lock()
	e, ok := s.entries[path]
	if !ok {
		e = &tileEntry{}
		s.entries[path] = e
	}
	s.mu.Unlock()

	e.once.Do(func() {
		e.tile, e.err = s.read(path, name)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.entries[path] != e {
			return
		}
		if e.err != nil {
			delete(s.entries, path)
			return
		}
		s.loaded = append(s.loaded, path)
		s.evict()
	})

	return e.tile, e.err
}

// Cached reports the number of tiles held in memory.
func (s *Store) Cached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.loaded)
}

// evict drops the oldest tiles over capacity. Callers hold mu.
func (s *Store) evict() {
	for len(s.loaded) > s.capacity {
		path := s.loaded[0]
		s.loaded = s.loaded[1:]
		delete(s.entries, path)
		log.Debug().Str("path", path).Msg("Tile evicted")
	}
}

func (s *Store) read(path, name string) (*Tile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	start := time.Now()
	t, err := ReadTile(f, name, s.proj)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("path", path).
		Int("points", len(t.Points)).
		Int("dates", len(t.Dates)).
		Dur("duration", time.Since(start)).
		Msg("Tile loaded")

	return t, nil
}

// PointsInAOI loads the tiles and returns the points lying within the AOI.
func (s *Store) PointsInAOI(product, direction string, tiles []string, aoi geo.FeatureCollection) (geo.FeatureCollection, error) {
	areas := aoi.Geometries()
	if len(areas) == 0 {
		return geo.FeatureCollection{}, geo.ErrNoFeatures
	}

	out := geo.NewFeatureCollection(0)
	for _, name := range tiles {
		t, err := s.Tile(product, direction, name)
		if err != nil {
			return geo.FeatureCollection{}, err
		}

		for _, p := range t.Points {
			f, err := t.Feature(p)
			if err != nil {
				return geo.FeatureCollection{}, err
			}

			within, err := geo.WithinAny(f.Geometry, areas)
			if err != nil {
				return geo.FeatureCollection{}, fmt.Errorf("tile %s pid %s: %w", name, p.PID, err)
			}
			if within {
				out.Features = append(out.Features, f)
			}
		}
	}

	return out, nil
}

// TimeSeries returns the dated measurements of one point, oldest first. Gaps are left out.
func (s *Store) TimeSeries(product, direction, tile, pid string) ([]Measurement, error) {
	t, err := s.Tile(product, direction, tile)
	if err != nil {
		return nil, err
	}

	p, ok := t.Lookup(pid)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrPointNotFound, pid, tile)
	}

	series := make([]Measurement, 0, len(t.Dates))
	for i, d := range t.Dates {
		if math.IsNaN(p.Series[i]) {
			continue
		}
		series = append(series, Measurement{Date: formatDate(d), Velocity: p.Series[i]})
	}

	return series, nil
}

func formatDate(d string) string {
	parsed, err := time.Parse("20060102", d)
	if err != nil {
		return d
	}
	return parsed.Format(time.DateOnly)
}

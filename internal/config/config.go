// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"

	"github.com/woozymasta/egmsmap/internal/geo"
	"github.com/woozymasta/egmsmap/internal/style"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Attribution string        `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	DataDir     string        `yaml:"data_dir" json:"-"`
	SourceCRS   string        `yaml:"source_crs,omitempty" json:"source_crs"`
	TileSource  string        `yaml:"tile_source,omitempty" json:"-"`
	Products    []string      `yaml:"products" json:"products"`
	Directions  []Direction   `yaml:"directions" json:"directions"`
	Colorbar    Colorbar      `yaml:"colorbar,omitempty" json:"colorbar"`
	Hideout     style.Hideout `yaml:"hideout" json:"hideout"`
	View        View          `yaml:"view,omitempty" json:"view"`
}

// Direction is one EGMS measurement direction with its tile boundary file.
type Direction struct {
	Name     string `yaml:"name" json:"name"`
	Boundary string `yaml:"boundary" json:"-"`
}

// View is the initial map position.
type View struct {
	Center [2]float64 `yaml:"center" json:"center"` // [Lat, Lon]
	Zoom   int        `yaml:"zoom" json:"zoom"`
}

// Colorbar describes the legend image.
type Colorbar struct {
	Unit   string `yaml:"unit,omitempty" json:"unit,omitempty"`
	Width  int    `yaml:"width,omitempty" json:"width"`
	Height int    `yaml:"height,omitempty" json:"height"`
}

// Default returns the built-in configuration of the viewer.
func Default() *Config {
	stroke := false
	return &Config{
		Attribution: "&copy; OpenStreetMap contributors | EGMS &copy; Copernicus",
		DataDir:     "data",
		SourceCRS:   "EPSG:3035",
		Products:    []string{"ortho"},
		Directions: []Direction{
			{Name: "vertical", Boundary: "data/EGMS_L3_100km_U_2018_2022_BOUNDARY.geojson"},
			{Name: "horizontal", Boundary: "data/EGMS_L3_100km_E_2018_2022_BOUNDARY.geojson"},
		},
		Colorbar: Colorbar{Width: 20, Height: 150, Unit: "mm/year"},
		Hideout: style.Hideout{
			Min:        -20,
			Max:        20,
			ColorScale: []string{"red", "yellow", "green", "blue", "purple"},
			ColorProp:  style.PropMeanVelocity,
			CircleOptions: style.CircleOptions{
				FillOpacity: 1,
				Stroke:      &stroke,
				Radius:      5,
			},
		},
		View: View{Center: [2]float64{53.5286207, -0.5675306}, Zoom: 6},
	}
}

// Load reads and parses the YAML configuration file from the specified path.
// Values missing in the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the server cannot work with.
func (c *Config) Validate() error {
	if len(c.Products) == 0 {
		return fmt.Errorf("no products configured")
	}
	if len(c.Directions) == 0 {
		return fmt.Errorf("no directions configured")
	}
	if _, err := geo.ParseEPSG(c.SourceCRS); err != nil {
		return fmt.Errorf("source_crs: %w", err)
	}
	if c.View.Zoom <= 0 {
		c.View.Zoom = 6
	}
	return c.Hideout.Validate()
}

// EPSG returns the numeric source CRS code. Validate must have succeeded.
func (c *Config) EPSG() int {
	code, _ := geo.ParseEPSG(c.SourceCRS)
	return code
}

// HasProduct reports whether p is a configured product.
func (c *Config) HasProduct(p string) bool {
	for _, name := range c.Products {
		if name == p {
			return true
		}
	}
	return false
}

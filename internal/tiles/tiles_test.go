package tiles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/woozymasta/egmsmap/internal/config"
	"github.com/woozymasta/egmsmap/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boundaryJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"tile": "L3_E34N32"},
     "geometry": {"type": "Polygon", "coordinates": [[[-2,52],[0,52],[0,54],[-2,54],[-2,52]]]}},
    {"type": "Feature", "properties": {"tile": "L3_E35N32"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,52],[2,52],[2,54],[0,54],[0,52]]]}},
    {"type": "Feature", "properties": {"tile": "L3_E40N40"},
     "geometry": {"type": "Polygon", "coordinates": [[[10,60],[12,60],[12,62],[10,62],[10,60]]]}}
  ]
}`

func aoi(t *testing.T, polygon string) geo.FeatureCollection {
	t.Helper()
	fc, err := geo.Decode(strings.NewReader(`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":` + polygon + `}]}`))
	require.NoError(t, err)
	return fc
}

func testIndex(t *testing.T) *Index {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "boundary.geojson")
	require.NoError(t, os.WriteFile(path, []byte(boundaryJSON), 0644))

	idx, err := Load([]config.Direction{{Name: "vertical", Boundary: path}})
	require.NoError(t, err)
	return idx
}

func TestIntersect(t *testing.T) {
	idx := testIndex(t)

	// straddles the first two tiles
	area := aoi(t, `{"type":"Polygon","coordinates":[[[-0.5,53],[0.5,53],[0.5,53.5],[-0.5,53.5],[-0.5,53]]]}`)

	got, err := idx.Intersect("vertical", area)
	require.NoError(t, err)
	assert.Equal(t, []string{"L3_E34N32", "L3_E35N32"}, Names(got))
}

func TestIntersectErrors(t *testing.T) {
	idx := testIndex(t)

	_, err := idx.Intersect("horizontal", aoi(t, `{"type":"Point","coordinates":[1,53]}`))
	assert.ErrorIs(t, err, ErrUnknownDirection)

	_, err = idx.Intersect("vertical", geo.NewFeatureCollection(0))
	assert.ErrorIs(t, err, geo.ErrNoFeatures)
}

func TestLoadMissingBoundary(t *testing.T) {
	_, err := Load([]config.Direction{{Name: "vertical", Boundary: filepath.Join(t.TempDir(), "nope.geojson")}})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDirectionsAndNames(t *testing.T) {
	idx := New(map[string]geo.FeatureCollection{"vertical": {}, "horizontal": {}})
	assert.Equal(t, []string{"horizontal", "vertical"}, idx.Directions())

	fc := geo.NewFeatureCollection(4)
	for _, props := range []map[string]any{{"tile": "B"}, {"tile": "A"}, {"tile": "B"}, {}} {
		f, err := geo.NewPointFeature(0, 0, props)
		require.NoError(t, err)
		fc.Features = append(fc.Features, f)
	}
	assert.Equal(t, []string{"A", "B"}, Names(fc))
}

func TestAll(t *testing.T) {
	idx := testIndex(t)

	fc, err := idx.All("vertical")
	require.NoError(t, err)
	assert.Len(t, Names(fc), 3)

	_, err = idx.All("up")
	assert.ErrorIs(t, err, ErrUnknownDirection)
}

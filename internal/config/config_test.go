package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/egmsmap/internal/style"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "data_dir: /srv/egms\n"))
	require.NoError(t, err)

	assert.Equal(t, "/srv/egms", cfg.DataDir)
	assert.Equal(t, 3035, cfg.EPSG())
	assert.Equal(t, -20.0, cfg.Hideout.Min)
	assert.Equal(t, 20.0, cfg.Hideout.Max)
	assert.Equal(t, style.PropMeanVelocity, cfg.Hideout.ColorProp)
	assert.Len(t, cfg.Hideout.ColorScale, 5)
	assert.True(t, cfg.HasProduct("ortho"))
	assert.False(t, cfg.HasProduct("basic"))
}

func TestLoadOverridesHideout(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
hideout:
  min: 0
  max: 100
  colorscale: ["#000000", "#ffffff"]
  colorProp: mean_velocity
  circleOptions:
    radius: 8
    fillOpacity: 0.5
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"#000000", "#ffffff"}, cfg.Hideout.ColorScale)
	assert.Equal(t, 8.0, cfg.Hideout.CircleOptions.Radius)
	assert.Equal(t, 0.5, cfg.Hideout.CircleOptions.FillOpacity)
}

func TestLoadRejectsInvalidHideout(t *testing.T) {
	_, err := Load(writeConfig(t, "hideout:\n  min: 5\n  max: 1\n"))
	assert.ErrorIs(t, err, style.ErrInvalidHideout)
}

func TestLoadRejectsBadCRS(t *testing.T) {
	_, err := Load(writeConfig(t, "source_crs: nowhere\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.env")
	require.NoError(t, os.WriteFile(path, []byte("EGMSMAP_TEST_CRS=EPSG:3035\n"), 0644))

	t.Setenv(DotEnvVar, path)
	t.Setenv("EGMSMAP_TEST_CRS", "")
	require.NoError(t, os.Unsetenv("EGMSMAP_TEST_CRS"))

	require.NoError(t, LoadEnv())
	assert.Equal(t, "EPSG:3035", os.Getenv("EGMSMAP_TEST_CRS"))
}

func TestLoadEnvMissingFile(t *testing.T) {
	t.Setenv(DotEnvVar, filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, LoadEnv())
}

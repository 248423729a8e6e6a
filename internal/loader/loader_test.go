package loader

import (
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/woozymasta/egmsmap/internal/egms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	got := BuildURL("https://example.org/{product}/{direction}/{tile}.csv", "ortho", "vertical", "E34N32")
	assert.Equal(t, "https://example.org/ortho/vertical/E34N32.csv", got)
}

func TestDownload(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if strings.HasSuffix(r.URL.Path, "/missing.csv") {
			http.NotFound(w, r)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/broken.csv") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("pid,easting,northing\n"))
	}))
	defer srv.Close()

	src := Source{
		URLTemplate: srv.URL + "/{product}/{direction}/{tile}.csv",
		DataDir:     t.TempDir(),
		Product:     "ortho",
		Direction:   "vertical",
	}

	got := Download(srv.Client(), src, []string{"A", "B", "missing", "broken"}, 3, false)
	sort.Strings(got)
	assert.Equal(t, []string{"A", "B"}, got)
	assert.Equal(t, int32(4), hits.Load())

	data, err := os.ReadFile(egms.Path(src.DataDir, "ortho", "vertical", "A"))
	require.NoError(t, err)
	assert.Equal(t, "pid,easting,northing\n", string(data))

	// second run reuses files on disk
	got = Download(srv.Client(), src, []string{"A"}, 1, false)
	assert.Equal(t, []string{"A"}, got)
	assert.Equal(t, int32(4), hits.Load())

	Download(srv.Client(), src, []string{"A"}, 1, true)
	assert.Equal(t, int32(5), hits.Load())
}

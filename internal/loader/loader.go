// Package loader downloads EGMS tile CSV files into the data directory.
package loader

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/woozymasta/egmsmap/internal/egms"

	"github.com/rs/zerolog/log"
)

// Source describes where tiles come from and where they go.
type Source struct {
	URLTemplate string // placeholders: {product} {direction} {tile}
	DataDir     string
	Product     string
	Direction   string
}

type job struct {
	Tile string
	URL  string
	Path string
}

type result struct {
	Err   error
	Tile  string
	Valid bool
}

// BuildURL fills the template placeholders.
func BuildURL(tpl, product, direction, tile string) string {
	r := strings.NewReplacer(
		"{product}", product,
		"{direction}", direction,
		"{tile}", tile,
	)
	return r.Replace(tpl)
}

// Download fetches the tiles with a pool of workers and returns the names now present on disk.
// Existing files are kept unless force is set.
func Download(client *http.Client, src Source, tiles []string, concurrency int, force bool) []string {
	if concurrency <= 0 {
		concurrency = 1
	}

	jobs := make(chan job, len(tiles))
	results := make(chan result, len(tiles))

	go func() {
		for _, t := range tiles {
			jobs <- job{
				Tile: t,
				URL:  BuildURL(src.URLTemplate, src.Product, src.Direction, t),
				Path: egms.Path(src.DataDir, src.Product, src.Direction, t),
			}
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				isValid, err := download(client, j, force)
				results <- result{Tile: j.Tile, Valid: isValid, Err: err}
			}
		}()
	}
	wg.Wait()
	close(results)

	var valid []string
	for res := range results {
		if res.Err != nil {
			log.Error().
				Err(res.Err).
				Str("tile", res.Tile).
				Msg("Failed to download tile")
			continue
		}
		if res.Valid {
			valid = append(valid, res.Tile)
		}
	}

	return valid
}

func download(client *http.Client, j job, force bool) (bool, error) {
	if !force {
		if info, err := os.Stat(j.Path); err == nil && info.Size() > 0 {
			log.Trace().Str("tile", j.Tile).Msg("Tile exists, skipping")
			return true, nil
		}
	}

	resp, err := client.Get(j.URL)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		log.Warn().Str("url", j.URL).Msg("Tile not found (404)")
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("status code %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(j.Path), 0755); err != nil {
		return false, err
	}

	// write beside the target and rename so readers never see partial files
	tmp, err := os.CreateTemp(filepath.Dir(j.Path), ".tile-*")
	if err != nil {
		return false, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return false, err
	}

	if err := os.Rename(tmp.Name(), j.Path); err != nil {
		return false, err
	}

	log.Debug().
		Str("tile", j.Tile).
		Int64("bytes", n).
		Msg("Tile downloaded")

	return true, nil
}

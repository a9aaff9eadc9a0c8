// Package catalog loads the reference ingredient data used to seed the
// database on boot.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"platefeed/internal/database"
	pfHttp "platefeed/internal/http"
)

// Entry is one ingredient in the seed file.
type Entry struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// Load reads a seed catalog from a local path or an http(s) URL.
func Load(ctx context.Context, client *pfHttp.HTTP, source string) ([]Entry, error) {
	var reader io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("building catalog request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching catalog: %w", err)
		}
		if err := pfHttp.ExpectStatus2xx(resp); err != nil {
			return nil, fmt.Errorf("fetching catalog: %w", err)
		}
		reader = resp.Body
	} else {
		file, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("opening catalog: %w", err)
		}
		reader = file
	}
	defer reader.Close()

	var entries []Entry
	if err := json.NewDecoder(reader).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return entries, nil
}

// Seed upserts the catalog entries. Entries with an empty name or unit
// are skipped rather than failing the whole load.
func Seed(ctx context.Context, db database.Querier, entries []Entry) (int, error) {
	seeded := 0
	for _, entry := range entries {
		if entry.Name == "" || entry.MeasurementUnit == "" {
			continue
		}
		if _, err := db.UpsertIngredient(ctx, database.UpsertIngredientParams{
			Name:            entry.Name,
			MeasurementUnit: entry.MeasurementUnit,
		}); err != nil {
			return seeded, fmt.Errorf("seeding ingredient %q: %w", entry.Name, err)
		}
		seeded++
	}
	return seeded, nil
}

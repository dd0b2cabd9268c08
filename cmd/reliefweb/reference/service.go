// service.go
package reference

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Loader loads the reference lists the request builder validates against.
//
// The raw payload of each list is cached as a JSON file in the cache
// directory on the first successful fetch; later loads, in this process or
// another, read the file and skip the network.
type Loader struct {
	cacheDir string
	urls     map[Kind]string
	client   *http.Client
	log      zerolog.Logger
}

// NewLoader creates a Loader. A nil Config.HTTPClient is replaced by a plain
// client with a 30 second timeout; the loader never retries by itself.
func NewLoader(config Config, log zerolog.Logger) (*Loader, error) {
	if config.CacheDir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &Loader{
		cacheDir: config.CacheDir,
		urls: map[Kind]string{
			Countries:     config.CountriesURL,
			DisasterTypes: config.DisasterTypesURL,
		},
		client: client,
		log:    log,
	}, nil
}

// Load returns the names of the reference list of kind.
func (l *Loader) Load(ctx context.Context, kind Kind) (Set, error) {
	items, err := l.items(ctx, kind)
	if err != nil {
		return Set{}, err
	}
	return NewSet(names(items)...), nil
}

// DisasterTypes returns the id/name index of disaster types, built from a
// single payload.
func (l *Loader) DisasterTypes(ctx context.Context) (*DisasterTypeIndex, error) {
	items, err := l.items(ctx, DisasterTypes)
	if err != nil {
		return nil, err
	}
	return indexDisasterTypes(items), nil
}

// LoadAll loads every reference list.
func (l *Loader) LoadAll(ctx context.Context) (*ReferenceSet, error) {
	countries, err := l.Load(ctx, Countries)
	if err != nil {
		return nil, err
	}
	index, err := l.DisasterTypes(ctx)
	if err != nil {
		return nil, err
	}

	l.log.Info().
		Int("countries", countries.Len()).
		Int("disasterTypes", len(index.NameToID)).
		Msg("Loaded reference data")

	return &ReferenceSet{
		Countries:     countries,
		DisasterTypes: index.Names(),
		DisasterIndex: index,
	}, nil
}

func (l *Loader) items(ctx context.Context, kind Kind) ([]item, error) {
	// Try the cache first
	data, err := l.loadFromDisk(kind)
	if err == nil {
		l.log.Debug().Str("kind", kind.String()).Str("file", l.cachePath(kind)).Msg("Reference data served from cache")
		return parse(kind, l.cachePath(kind), data)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		l.log.Warn().Err(err).Str("kind", kind.String()).Msg("Failed to read cache, trying remote")
	}

	url := l.urls[kind]
	if url == "" {
		return nil, &FetchError{Kind: kind, Source: l.cachePath(kind), Err: fmt.Errorf("no cache file and no remote URL configured")}
	}

	data, err = l.fetchFromRemote(ctx, url)
	if err != nil {
		return nil, &FetchError{Kind: kind, Source: url, Err: err}
	}

	items, err := parse(kind, url, data)
	if err != nil {
		return nil, err
	}

	if err := l.saveToDisk(kind, data); err != nil {
		l.log.Warn().Err(err).Str("kind", kind.String()).Msg("Failed to cache reference data")
	}

	l.log.Debug().
		Str("kind", kind.String()).
		Str("url", url).
		Int("count", len(items)).
		Msg("Reference data fetched from remote")

	return items, nil
}

func (l *Loader) fetchFromRemote(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return bodyBytes, nil
}

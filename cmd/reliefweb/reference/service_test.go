package reference

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	countriesPayload = `{"count":3,"data":[
		{"id":"226","fields":{"name":"Turkey","iso3":"tur"}},
		{"id":"223","fields":{"name":"Syrian Arab Republic"}},
		{"id":254,"fields":{"name":"United States of America"}}]}`
	disasterTypesPayload = `{"data":[
		{"id":"4628","fields":{"name":"Earthquake"}},
		{"id":4611,"fields":{"name":"Flood"}}]}`
)

type fakeAPI struct {
	server *httptest.Server
	hits   atomic.Int32
}

func newFakeAPI(t *testing.T, status int, countries, disasterTypes string) *fakeAPI {
	t.Helper()
	api := &fakeAPI{}
	mux := http.NewServeMux()
	mux.HandleFunc("/countries", func(w http.ResponseWriter, r *http.Request) {
		api.hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(countries))
	})
	mux.HandleFunc("/references/disaster-types", func(w http.ResponseWriter, r *http.Request) {
		api.hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(disasterTypes))
	})
	api.server = httptest.NewServer(mux)
	t.Cleanup(api.server.Close)
	return api
}

func newTestLoader(t *testing.T, apiURL, cacheDir string) *Loader {
	t.Helper()
	cfg := DefaultConfig(apiURL, "test-app", cacheDir)
	cfg.HTTPClient = http.DefaultClient
	loader, err := NewLoader(cfg, zerolog.Nop())
	require.NoError(t, err)
	return loader
}

func TestLoader_FetchesOnceThenServesCache(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, countriesPayload, disasterTypesPayload)
	dir := filepath.Join(t.TempDir(), "data")
	loader := newTestLoader(t, api.server.URL, dir)

	countries, err := loader.Load(context.Background(), Countries)
	require.NoError(t, err)
	assert.Equal(t, 3, countries.Len())
	assert.True(t, countries.Contains("Turkey"))
	assert.False(t, countries.Contains("Atlantis"))
	assert.Equal(t, []string{"Syrian Arab Republic", "Turkey", "United States of America"}, countries.Names())
	assert.FileExists(t, filepath.Join(dir, "country_list.json"))

	_, err = loader.Load(context.Background(), Countries)
	require.NoError(t, err)
	assert.Equal(t, int32(1), api.hits.Load())

	// A second loader, as in a later process, reads the same cache.
	again := newTestLoader(t, api.server.URL, dir)
	countries, err = again.Load(context.Background(), Countries)
	require.NoError(t, err)
	assert.Equal(t, 3, countries.Len())
	assert.Equal(t, int32(1), api.hits.Load())
}

func TestLoader_DisasterTypeIndex(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, countriesPayload, disasterTypesPayload)
	loader := newTestLoader(t, api.server.URL, t.TempDir())

	idx, err := loader.DisasterTypes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"4628": "Earthquake", "4611": "Flood"}, idx.IDToName)
	assert.Equal(t, map[string]string{"Earthquake": "4628", "Flood": "4611"}, idx.NameToID)
	assert.Equal(t, []string{"Earthquake", "Flood"}, idx.Names().Names())
	assert.Equal(t, int32(1), api.hits.Load())
}

func TestLoader_LoadAll(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, countriesPayload, disasterTypesPayload)
	loader := newTestLoader(t, api.server.URL, t.TempDir())

	refs, err := loader.LoadAll(context.Background())
	require.NoError(t, err)

	assert.True(t, refs.Countries.Contains("Syrian Arab Republic"))
	assert.True(t, refs.DisasterTypes.Contains("Earthquake"))
	assert.Equal(t, "Flood", refs.DisasterIndex.IDToName["4611"])
	assert.Equal(t, int32(2), api.hits.Load())
}

func TestLoader_FetchError(t *testing.T) {
	api := newFakeAPI(t, http.StatusServiceUnavailable, "down", "down")
	dir := t.TempDir()
	loader := newTestLoader(t, api.server.URL, dir)

	_, err := loader.Load(context.Background(), Countries)
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, Countries, fetchErr.Kind)
	assert.Contains(t, err.Error(), "status 503")
	assert.NoFileExists(t, filepath.Join(dir, "country_list.json"))
}

func TestLoader_FetchErrorWhenUnreachable(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, countriesPayload, disasterTypesPayload)
	url := api.server.URL
	api.server.Close()

	loader := newTestLoader(t, url, t.TempDir())
	_, err := loader.Load(context.Background(), DisasterTypes)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, DisasterTypes, fetchErr.Kind)
}

func TestLoader_FetchErrorWithoutURL(t *testing.T) {
	loader, err := NewLoader(Config{CacheDir: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), Countries)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestLoader_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		payload string
		reason  string
	}{
		{"not json", Countries, `<html>`, "invalid JSON"},
		{"missing data", Countries, `{"items":[]}`, `missing "data"`},
		{"missing fields", Countries, `{"data":[{"id":"1"}]}`, `missing "fields"`},
		{"missing name", Countries, `{"data":[{"id":"1","fields":{"iso3":"tur"}}]}`, `missing "fields.name"`},
		{"missing id", DisasterTypes, `{"data":[{"fields":{"name":"Flood"}}]}`, `missing "id"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.kind.fileName()), []byte(tt.payload), 0644))

			loader, err := NewLoader(Config{CacheDir: dir}, zerolog.Nop())
			require.NoError(t, err)

			_, err = loader.Load(context.Background(), tt.kind)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Contains(t, parseErr.Error(), tt.reason)
		})
	}
}

func TestLoader_MalformedRemotePayloadIsNotCached(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{"data":[{"id":"1"}]}`, disasterTypesPayload)
	dir := t.TempDir()
	loader := newTestLoader(t, api.server.URL, dir)

	_, err := loader.Load(context.Background(), Countries)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.NoFileExists(t, filepath.Join(dir, "country_list.json"))
}

func TestLoader_EmptyListIsValid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "country_list.json"), []byte(`{"data":[]}`), 0644))

	loader, err := NewLoader(Config{CacheDir: dir}, zerolog.Nop())
	require.NoError(t, err)

	countries, err := loader.Load(context.Background(), Countries)
	require.NoError(t, err)
	assert.Equal(t, 0, countries.Len())
}

func TestNewLoader_RequiresCacheDir(t *testing.T) {
	_, err := NewLoader(Config{}, zerolog.Nop())
	require.Error(t, err)
}

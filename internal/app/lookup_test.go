package app_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wikidefine/internal/adapter/postgres"
	"github.com/heartmarshall/wikidefine/internal/adapter/postgres/source"
	"github.com/heartmarshall/wikidefine/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/wikidefine/internal/adapter/postgres/word"
	"github.com/heartmarshall/wikidefine/internal/app"
	"github.com/heartmarshall/wikidefine/internal/app/ingest"
	"github.com/heartmarshall/wikidefine/internal/config"
	"github.com/heartmarshall/wikidefine/internal/domain"
	"github.com/heartmarshall/wikidefine/internal/service/lookup"
	"github.com/heartmarshall/wikidefine/internal/transport/rest"
	"github.com/heartmarshall/wikidefine/internal/vocab"
)

// TestIngestThenServe loads the sample dump through the real repositories
// and then queries it over HTTP.
func TestIngestThenServe(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	voc, err := vocab.Default()
	require.NoError(t, err)

	words := word.New(pool)
	sources := source.New(pool)

	pipeline := ingest.NewPipeline(
		logger,
		words,
		sources,
		postgres.NewTxManager(pool),
		voc.Headings,
		ingest.OpenDump,
		ingest.Config{DumpPath: "../dump/testdata/sample.xml.bz2", Workers: 2, BatchSize: 10, QueueSize: 4},
	)
	require.NoError(t, pipeline.Run(ctx, nil))
	require.False(t, pipeline.HasErrors(), "results: %+v", pipeline.Results())

	res := pipeline.Results()
	assert.Equal(t, 1, res[ingest.PhaseTemplates].Templates)
	assert.Equal(t, 1, res[ingest.PhaseTemplates].Modules)
	assert.Equal(t, 1, res[ingest.PhaseWords].Inserted)
	assert.Equal(t, 1, res[ingest.PhaseWords].SkippedPages)

	tmpl, err := sources.Get(ctx, domain.PageKindTemplate, "qualifier")
	require.NoError(t, err)
	assert.Equal(t, "({{{1}}})", tmpl.Content)

	renderer, err := app.NewRenderer(voc, config.RenderConfig{MaxIterations: 32}, logger)
	require.NoError(t, err)

	handler := rest.NewRouter(
		rest.NewHealthHandler(pool, words, "test"),
		rest.NewWordHandler(lookup.NewService(logger, words, renderer), logger),
		rest.NewSourceHandler(sources, logger),
		config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,OPTIONS"},
		logger,
	)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Run("rendered", func(t *testing.T) {
		var got lookup.Result
		status := getJSON(t, srv.URL+"/words/cat", &got)
		require.Equal(t, http.StatusOK, status)

		require.Len(t, got.Languages, 1)
		assert.Equal(t, "English", got.Languages[0].Name)
		require.Len(t, got.Languages[0].PartsOfSpeech, 1)
		pos := got.Languages[0].PartsOfSpeech[0]
		assert.Equal(t, "Noun", pos.Name)
		require.Len(t, pos.Definitions, 1)
		assert.Equal(t, "(informal) A domestic animal.", pos.Definitions[0].Text)
	})

	t.Run("raw", func(t *testing.T) {
		var got lookup.Result
		status := getJSON(t, srv.URL+"/words/cat?raw=true", &got)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "{{lb|en|informal}} A [[domestic]] animal.",
			got.Languages[0].PartsOfSpeech[0].Definitions[0].Text)
	})

	t.Run("other language", func(t *testing.T) {
		var body map[string]string
		status := getJSON(t, srv.URL+"/words/cat?language=French", &body)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "no results", body["error"])
	})

	t.Run("template source", func(t *testing.T) {
		var got rest.SourceResponse
		status := getJSON(t, srv.URL+"/templates/qualifier", &got)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "qualifier", got.Name)
		assert.Equal(t, "({{{1}}})", got.Content)

		var body map[string]string
		status = getJSON(t, srv.URL+"/modules/qualifier", &body)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("health", func(t *testing.T) {
		var got rest.HealthResponse
		status := getJSON(t, srv.URL+"/health", &got)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ok", got.Status)
		dict := got.Components["dictionary"]
		require.NotNil(t, dict.Definitions)
		assert.Equal(t, 1, *dict.Definitions)
	})
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/movieapi/internal/data"
	"github.com/liliang-cn/movieapi/internal/jsonlog"
	"github.com/liliang-cn/movieapi/internal/testutil"
)

func newTestApplication(t *testing.T) (*application, *sql.DB) {
	t.Helper()

	db := testutil.NewDB(t)

	var cfg config
	cfg.port = 4000
	cfg.env = "development"
	cfg.db.driver = testutil.Driver
	cfg.shutdownTimeout = 5 * time.Second

	app := &application{
		config:  cfg,
		logger:  jsonlog.New(io.Discard, jsonlog.LevelOff),
		db:      db,
		models:  data.NewModels(db, testutil.Driver),
		metrics: newMetrics(db),
	}
	return app, db
}

func doRequest(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		var buf bytes.Buffer
		_ = json.NewEncoder(&buf).Encode(b)
		r = &buf
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

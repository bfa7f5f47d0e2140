package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	docreview "github.com/tsawler/docreview"
	"github.com/tsawler/docreview/config"
	"github.com/tsawler/docreview/docx"
	"github.com/tsawler/docreview/logging"
	"github.com/tsawler/docreview/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	root    string
	handler http.Handler
	logs    *observer.ObservedLogs
}

func newFixture(t *testing.T, maxBody int64) *fixture {
	t.Helper()
	root := t.TempDir()

	b := docx.NewBuilder(filepath.Join(root, "batch.docx"))
	b.AddParagraph("3. Equipment Configuration", "Heading 1")
	tbl := b.AddTable(3, 2)
	for r, row := range [][]string{{"Instrument", "Setting"}, {"Incubator", "(Pending)"}, {"Centrifuge", ""}} {
		for c, text := range row {
			require.NoError(t, b.SetCell(tbl, r, c, text))
		}
	}
	require.NoError(t, b.Save())
	require.NoError(t, os.WriteFile(filepath.Join(root, "scan.docx"), []byte("%PDF-1.7"), 0o644))

	core, logs := observer.New(zapcore.DebugLevel)
	logger := logging.NewLoggerFromCore(core)
	collector := metrics.NewCollector(metrics.CollectorConfig{})

	cfg := config.Default().Server
	cfg.DocumentRoot = root
	cfg.MaxBodyBytes = maxBody

	engine := docreview.NewEngine(docreview.Config{Logger: logger, Metrics: collector})
	srv := New(cfg, engine, WithLogger(logger), WithMetrics("/metrics", collector.Handler()))
	return &fixture{root: root, handler: srv.Handler(), logs: logs}
}

func (f *fixture) do(method, target string, body any) *httptest.ResponseRecorder {
	var r *http.Request
	if body == nil {
		r = httptest.NewRequest(method, target, nil)
	} else {
		data, _ := json.Marshal(body)
		r = httptest.NewRequest(method, target, bytes.NewReader(data))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, r)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Error
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, 0)
	w := f.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.Zero(t, f.logs.FilterMessage("request handled").Len(), "health checks are not logged")
}

func TestReview(t *testing.T) {
	f := newFixture(t, 0)
	w := f.do(http.MethodGet, "/v1/documents/batch.docx/review", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rv docreview.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rv))
	require.Len(t, rv.Structure.Tables, 1)
	assert.Equal(t, "3. Equipment Configuration", rv.Structure.Tables[0].Name)
	assert.Equal(t, 2, rv.Gaps.Counts.TableCells)
	assert.Contains(t, rv.TextContent, "Incubator | (Pending)")
}

func TestReviewPreserved(t *testing.T) {
	f := newFixture(t, 0)
	q := url.Values{"preserved": {`{"0":{"name":"Kept Name","id":"eq"}}`}}
	w := f.do(http.MethodGet, "/v1/documents/batch.docx/review?"+q.Encode(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rv docreview.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rv))
	assert.Equal(t, "Kept Name", rv.Structure.Tables[0].Name)
	assert.Equal(t, "eq", rv.Structure.Tables[0].ID)

	// Unreadable metadata is ignored.
	w = f.do(http.MethodGet, "/v1/documents/batch.docx/review?preserved=%7Bnope", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReviewErrors(t *testing.T) {
	f := newFixture(t, 0)
	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"missing", "/v1/documents/missing.docx/review", http.StatusNotFound, "not_found"},
		{"wrong extension", "/v1/documents/notes.txt/review", http.StatusUnsupportedMediaType, "unsupported_format"},
		{"wrong content", "/v1/documents/scan.docx/review", http.StatusUnsupportedMediaType, "unsupported_format"},
		{"traversal", "/v1/documents/..%5Csecret.docx/review", http.StatusBadRequest, "invalid_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestSafeName(t *testing.T) {
	assert.True(t, safeName("batch.docx"))
	assert.True(t, safeName("batch record v2.docx"))
	for _, name := range []string{"", "..", "../batch.docx", "a/b.docx", `a\b.docx`, "x..docx"} {
		assert.False(t, safeName(name), name)
	}
}

func TestApplyStructure(t *testing.T) {
	f := newFixture(t, 0)
	w := f.do(http.MethodGet, "/v1/documents/batch.docx/review", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rv docreview.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rv))

	edited := rv.Structure
	edited.Tables[0].Rows[1].Cells[1].Text = "37C"
	edited.Tables[0].Name = "Confirmed Equipment"

	w = f.do(http.MethodPut, "/v1/documents/batch.docx/structure", edited)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res docreview.ApplyResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "in_place", string(res.Outcome.Mode))
	assert.Equal(t, 1, res.Outcome.CellsUpdated)
	assert.Equal(t, "Confirmed Equipment", res.Structure.Tables[0].Name)
	assert.Equal(t, 1, res.Gaps.Counts.TableCells)
	assert.Empty(t, res.Warnings)
}

func TestApplyStructureErrors(t *testing.T) {
	f := newFixture(t, 0)

	w := f.do(http.MethodPut, "/v1/documents/missing.docx/structure", map[string]any{})
	assert.Equal(t, http.StatusNotFound, w.Code)
	_, err := os.Stat(filepath.Join(f.root, "missing.docx"))
	assert.True(t, os.IsNotExist(err), "edits must not create documents")

	r := httptest.NewRequest(http.MethodPut, "/v1/documents/batch.docx/structure", strings.NewReader("{not json"))
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_body", decodeError(t, rec).Code)
}

func TestBodyTooLarge(t *testing.T) {
	f := newFixture(t, 16)
	w := f.do(http.MethodPut, "/v1/documents/batch.docx/text", textRequest{Text: strings.Repeat("x", 64)})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "body_too_large", decodeError(t, w).Code)
}

func TestApplyText(t *testing.T) {
	f := newFixture(t, 0)
	w := f.do(http.MethodPut, "/v1/documents/batch.docx/text", textRequest{Text: "First line\nSecond line"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rv docreview.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rv))
	require.Len(t, rv.Structure.Paragraphs, 2)
	assert.Equal(t, "Second line", rv.Structure.Paragraphs[1].Text)
	assert.Empty(t, rv.Structure.Tables)
}

func TestReport(t *testing.T) {
	f := newFixture(t, 0)
	w := f.do(http.MethodGet, "/v1/documents/batch.docx/report", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<title>Review: batch.docx</title>")
	assert.Contains(t, body, `class="gap gap-pending"`)
}

func TestMetrics(t *testing.T) {
	f := newFixture(t, 0)
	f.do(http.MethodGet, "/v1/documents/batch.docx/review", nil)

	w := f.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "docreview_extractions_total 1")
}

func TestRequestID(t *testing.T) {
	f := newFixture(t, 0)

	w := f.do(http.MethodGet, "/v1/documents/batch.docx/review", nil)
	generated := w.Header().Get(requestIDHeader)
	assert.Len(t, generated, 36)

	r := httptest.NewRequest(http.MethodGet, "/v1/documents/missing.docx/review", nil)
	r.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, r)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))

	handled := f.logs.FilterMessage("request handled").All()
	require.Len(t, handled, 1)
	assert.Equal(t, generated, handled[0].ContextMap()["request_id"])

	rejected := f.logs.FilterMessage("request rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, "abc-123", rejected[0].ContextMap()["request_id"])
	assert.EqualValues(t, http.StatusNotFound, rejected[0].ContextMap()["status"])
}

func TestKeyedMutex(t *testing.T) {
	k := newKeyedMutex()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		overlap bool
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("batch.docx")
			defer unlock()
			mu.Lock()
			active++
			if active > 1 {
				overlap = true
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.False(t, overlap)
	assert.Zero(t, k.len())

	// Different keys do not block each other.
	a := k.Lock("a.docx")
	b := k.Lock("b.docx")
	assert.Equal(t, 2, k.len())
	a()
	b()
}

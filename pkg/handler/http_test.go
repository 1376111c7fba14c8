package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/foomo/sitecheck/pkg/handler"
	"github.com/foomo/sitecheck/pkg/monitor"
	"github.com/foomo/sitecheck/pkg/repo"
	"github.com/foomo/sitecheck/pkg/repo/mock"
	"github.com/foomo/sitecheck/pkg/seo"
	"github.com/foomo/sitecheck/pkg/validator"
	"github.com/foomo/sitecheck/responses"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var now = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

type blockingValidator struct {
	release chan struct{}
}

func (v *blockingValidator) Validate(ctx context.Context, raw interface{}) validator.Result {
	<-v.release
	return validator.Result{IsValid: true}
}

func newTestHandler(t *testing.T, source string, v monitor.Validator) (http.Handler, *monitor.Monitor) {
	t.Helper()
	l := zaptest.NewLogger(t)

	h, err := repo.NewHistory(l, repo.HistoryWithHistoryDir(t.TempDir()))
	require.NoError(t, err)
	r := repo.New(l, source, h)
	go r.Start(t.Context()) //nolint:errcheck
	if source != "" {
		require.Eventually(t, r.Loaded, 2*time.Second, 10*time.Millisecond)
	}

	if v == nil {
		v = validator.New(l,
			validator.WithImages(false),
			validator.WithLinks(false),
			validator.WithNow(func() time.Time { return now }),
		)
	}
	m := monitor.New(l, r, v)
	resolver := seo.NewResolver("https://texecon.com", seo.WithNow(func() time.Time { return now }))

	return handler.NewHTTP(l, r, m, resolver, handler.WithBasePath("/sitecheck/")), m
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	h.ServeHTTP(w, req)
	return w
}

func TestRobots(t *testing.T) {
	h, _ := newTestHandler(t, mock.File("bundle-ok.json"), nil)

	w := serve(h, http.MethodGet, "/sitecheck/robots.txt", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, seo.RobotsTxt("https://texecon.com"), w.Body.String())
}

func TestSitemap(t *testing.T) {
	h, _ := newTestHandler(t, mock.File("bundle-ok.json"), nil)

	w := serve(h, http.MethodGet, "/sitecheck/sitemap.xml", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Equal(t, 6, strings.Count(body, "<url>"), "root entry plus five visible pages")
	assert.Contains(t, body, "<loc>https://texecon.com/research</loc>")
	assert.NotContains(t, body, "drafts")
	assert.Less(t, strings.Index(body, "<priority>1.0</priority>"), strings.Index(body, "<priority>0.6</priority>"))
}

func TestSitemapWithoutBundle(t *testing.T) {
	h, _ := newTestHandler(t, "", nil)

	w := serve(h, http.MethodGet, "/sitecheck/sitemap.xml", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = serve(h, http.MethodGet, "/sitecheck/bundle", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBundle(t *testing.T) {
	h, _ := newTestHandler(t, mock.File("bundle-ok.json"), nil)

	w := serve(h, http.MethodGet, "/sitecheck/bundle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"title": "TexEcon"`)
}

func TestReportAndValidate(t *testing.T) {
	h, _ := newTestHandler(t, mock.File("bundle-ok.json"), nil)

	report := &responses.Report{}
	w := serve(h, http.MethodGet, "/sitecheck/report", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), report))
	assert.Nil(t, report.Result)
	assert.Equal(t, validator.StatusUnknown, report.Status)
	assert.Equal(t, 0, report.HealthScore)

	w = serve(h, http.MethodPost, "/sitecheck/validate", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), report))
	require.NotNil(t, report.Result)
	assert.True(t, report.Result.IsValid)
	assert.Empty(t, report.Result.Errors)
	assert.Empty(t, report.Result.Warnings)
	assert.Equal(t, validator.StatusHealthy, report.Status)
	assert.Equal(t, 100, report.HealthScore)

	w = serve(h, http.MethodGet, "/sitecheck/report", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestValidateConflict(t *testing.T) {
	v := &blockingValidator{release: make(chan struct{})}
	h, m := newTestHandler(t, mock.File("bundle-ok.json"), v)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = m.Run(t.Context())
	}()
	require.Eventually(t, m.Running, time.Second, time.Millisecond)

	w := serve(h, http.MethodPost, "/sitecheck/validate", `{"update": false}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	close(v.release)
	<-done
}

func TestValidateBadRequest(t *testing.T) {
	h, _ := newTestHandler(t, mock.File("bundle-ok.json"), nil)

	w := serve(h, http.MethodPost, "/sitecheck/validate", `{"update": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouting(t *testing.T) {
	h, _ := newTestHandler(t, mock.File("bundle-ok.json"), nil)

	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/sitecheck/nope", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(h, http.MethodPost, "/sitecheck/report", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(h, http.MethodGet, "/sitecheck/validate", "").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodHead, "/sitecheck/robots.txt", "").Code)
}

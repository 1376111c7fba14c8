package handler

import (
	"io"
	"net/http"
	"strings"
	"time"

	httputils "github.com/foomo/keel/utils/net/http"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/foomo/sitecheck/pkg/metrics"
	"github.com/foomo/sitecheck/pkg/monitor"
	"github.com/foomo/sitecheck/pkg/repo"
	"github.com/foomo/sitecheck/pkg/seo"
	"github.com/foomo/sitecheck/requests"
	"github.com/foomo/sitecheck/responses"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	HTTP struct {
		l              *zap.Logger
		path           string
		repo           *repo.Repo
		monitor        *monitor.Monitor
		resolver       *seo.Resolver
		sitemapSort    bool
		sitemapDedupe  bool
		maxRequestSize int64
	}
	HTTPOption func(*HTTP)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewHTTP handler serving the generated files and validation reports of the
// current bundle
func NewHTTP(l *zap.Logger, repo *repo.Repo, monitor *monitor.Monitor, resolver *seo.Resolver, opts ...HTTPOption) http.Handler {
	inst := &HTTP{
		l:              l.Named("http"),
		path:           "/sitecheck",
		repo:           repo,
		monitor:        monitor,
		resolver:       resolver,
		sitemapSort:    true,
		sitemapDedupe:  true,
		maxRequestSize: 1 << 16,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithBasePath(v string) HTTPOption {
	return func(o *HTTP) {
		o.path = strings.TrimRight(v, "/")
	}
}

func WithSitemapSort(v bool) HTTPOption {
	return func(o *HTTP) {
		o.sitemapSort = v
	}
}

func WithSitemapDedupe(v bool) HTTPOption {
	return func(o *HTTP) {
		o.sitemapDedupe = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	route := Route(strings.TrimPrefix(r.URL.Path, h.path+"/"))
	sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

	switch route {
	case RouteSitemap, RouteRobots, RouteReport, RouteBundle:
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			httputils.ServerError(h.l, sw, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
			break
		}
		h.get(sw, r, route)
	case RouteValidate:
		if r.Method != http.MethodPost {
			httputils.ServerError(h.l, sw, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
			break
		}
		h.validate(sw, r)
	default:
		httputils.ServerError(h.l, sw, r, http.StatusNotFound, errors.Errorf("unknown route: %s", route))
	}

	result := "success"
	if sw.status >= http.StatusBadRequest {
		result = "error"
	}
	metrics.ServiceRequestCounter.WithLabelValues(string(route), result, "webserver").Inc()
	metrics.ServiceRequestDuration.WithLabelValues(string(route), result, "webserver").Observe(time.Since(start).Seconds())
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) get(w http.ResponseWriter, r *http.Request, route Route) {
	switch route {
	case RouteRobots:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, h.resolver.RobotsTxt())
	case RouteReport:
		h.writeJSON(w, r, http.StatusOK, responses.NewReport(h.repo.Source(), h.monitor.Last()))
	case RouteBundle:
		w.Header().Set("Content-Type", "application/json")
		if err := h.repo.WriteBundle(r.Context(), w); err != nil {
			httputils.ServerError(h.l, w, r, http.StatusServiceUnavailable, errors.Wrap(err, "no bundle available"))
		}
	case RouteSitemap:
		s := h.repo.Snapshot()
		if s == nil {
			httputils.ServerError(h.l, w, r, http.StatusServiceUnavailable, errors.New("no bundle loaded yet"))
			return
		}
		entries := h.resolver.SitemapEntries(s.Hierarchy)
		if h.sitemapDedupe {
			entries = seo.WithoutDuplicates(entries)
		}
		if h.sitemapSort {
			entries = seo.SortByPriority(entries)
		}
		data, err := seo.SitemapXML(entries)
		if err != nil {
			httputils.ServerError(h.l, w, r, http.StatusInternalServerError, errors.Wrap(err, "failed to render sitemap"))
			return
		}
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		_, _ = w.Write(data)
	}
}

func (h *HTTP) validate(w http.ResponseWriter, r *http.Request) {
	req := &requests.Validate{}
	if r.Body != nil {
		data, err := io.ReadAll(io.LimitReader(r.Body, h.maxRequestSize))
		if err != nil {
			httputils.BadRequestServerError(h.l, w, r, errors.Wrap(err, "failed to read incoming request"))
			return
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, req); err != nil {
				httputils.BadRequestServerError(h.l, w, r, errors.Wrap(err, "could not read incoming json"))
				return
			}
		}
	}

	if h.monitor.Running() {
		httputils.ServerError(h.l, w, r, http.StatusConflict, monitor.ErrValidationInProgress)
		return
	}

	if req.Update {
		if resp := h.repo.Update(r.Context()); !resp.Success {
			h.l.Warn("update before validation failed", zap.String("error", resp.ErrorMessage))
		}
	}

	res, err := h.monitor.Run(r.Context())
	switch {
	case errors.Is(err, monitor.ErrValidationInProgress):
		httputils.ServerError(h.l, w, r, http.StatusConflict, err)
	case errors.Is(err, monitor.ErrNoSnapshot):
		httputils.ServerError(h.l, w, r, http.StatusServiceUnavailable, err)
	case err != nil:
		httputils.ServerError(h.l, w, r, http.StatusInternalServerError, err)
	default:
		h.writeJSON(w, r, http.StatusOK, responses.NewReport(h.repo.Source(), res))
	}
}

func (h *HTTP) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		httputils.ServerError(h.l, w, r, http.StatusInternalServerError, errors.Wrap(err, "could not encode reply"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

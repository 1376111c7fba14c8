package validator_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/foomo/sitecheck/pkg/probe"
	"github.com/foomo/sitecheck/pkg/validator"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var now = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

type fakeChecker struct {
	mu      sync.Mutex
	results map[string]probe.Result
	calls   map[probe.Kind][]string
	panics  bool
}

func (f *fakeChecker) Check(ctx context.Context, kind probe.Kind, urls []string) []probe.Result {
	if f.panics {
		panic("boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[probe.Kind][]string{}
	}
	f.calls[kind] = append(f.calls[kind], urls...)
	ret := make([]probe.Result, len(urls))
	for i, u := range urls {
		res, ok := f.results[u]
		if !ok {
			res = probe.Result{StatusCode: 200, ContentType: "image/png"}
		}
		res.URL = u
		ret[i] = res
	}
	return ret
}

func newValidator(t *testing.T, checker validator.Checker, opts ...validator.Option) *validator.Validator {
	t.Helper()
	opts = append([]validator.Option{
		validator.WithChecker(checker),
		validator.WithNow(func() time.Time { return now }),
	}, opts...)
	return validator.New(zaptest.NewLogger(t), opts...)
}

func validBundle() map[string]interface{} {
	return map[string]interface{}{
		"metadata": map[string]interface{}{
			"title":       "TexEcon",
			"description": "Texas Economic Analysis",
			"lastUpdated": now.Add(-24 * time.Hour).Format(time.RFC3339),
		},
		"team": []interface{}{
			map[string]interface{}{
				"name":        "Jane",
				"title":       "Economist",
				"description": "Writes about oil",
				"image":       "https://img.example.com/jane.png",
				"social": map[string]interface{}{
					"twitter":  "https://twitter.com/jane",
					"linkedin": "#",
					"email":    "mailto:jane@example.com",
					"count":    float64(3),
				},
			},
		},
		"navigation": []interface{}{
			map[string]interface{}{
				"title":   "About",
				"content": "<p>About <strong>us</strong></p>",
			},
		},
		"insights": []interface{}{
			map[string]interface{}{
				"title": "Oil",
				"image": "https://img.example.com/oil.jpg",
			},
		},
	}
}

func TestValidateContentValid(t *testing.T) {
	checker := &fakeChecker{}
	v := newValidator(t, checker)

	res := v.ValidateContent(t.Context(), validBundle())
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "2026-10-16T08:00:00.000Z", res.Timestamp)

	assert.Equal(t, []string{"https://img.example.com/jane.png", "https://img.example.com/oil.jpg"}, checker.calls[probe.KindImage])
	assert.Equal(t, []string{"https://twitter.com/jane"}, checker.calls[probe.KindLink])
}

func TestValidateContentMissingData(t *testing.T) {
	v := newValidator(t, &fakeChecker{})
	for _, raw := range []interface{}{nil, "bundle", float64(1), []interface{}{}} {
		res := v.ValidateContent(t.Context(), raw)
		assert.False(t, res.IsValid)
		assert.Equal(t, []string{"Content data is missing or invalid"}, res.Errors)
		assert.Empty(t, res.Warnings)
		assert.NotNil(t, res.Warnings)
	}
}

func TestValidateContentRequiredFields(t *testing.T) {
	v := newValidator(t, &fakeChecker{})

	res := v.ValidateContent(t.Context(), map[string]interface{}{})
	assert.False(t, res.IsValid)
	assert.Equal(t, []string{
		"Missing metadata section",
		"Missing or invalid team section",
		"Missing or invalid navigation section",
	}, res.Errors)
	assert.Empty(t, res.Warnings)

	res = v.ValidateContent(t.Context(), map[string]interface{}{
		"metadata": map[string]interface{}{"title": "", "description": "d"},
		"team": []interface{}{
			map[string]interface{}{"name": "Jane", "title": "Economist", "description": "d", "image": "https://img.example.com/jane.png"},
			map[string]interface{}{"description": ""},
		},
		"navigation": map[string]interface{}{},
	})
	if diff := cmp.Diff([]string{
		"Missing metadata title",
		"Team member 2 missing name",
		"Team member 2 missing title",
		"Missing or invalid navigation section",
	}, res.Errors); diff != "" {
		t.Errorf("unexpected errors (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{
		"Missing lastUpdated timestamp",
		"Team member 2 missing description",
		"Team member 2 missing image",
	}, res.Warnings); diff != "" {
		t.Errorf("unexpected warnings (-want +got):\n%s", diff)
	}
}

func TestValidateContentEmptyNavigation(t *testing.T) {
	v := newValidator(t, &fakeChecker{})
	raw := validBundle()
	raw["navigation"] = []interface{}{}

	res := v.ValidateContent(t.Context(), raw)
	assert.True(t, res.IsValid)
	assert.Equal(t, []string{"Navigation is empty"}, res.Warnings)
}

func TestValidateContentImages(t *testing.T) {
	checker := &fakeChecker{results: map[string]probe.Result{
		"https://img.example.com/jane.png": {StatusCode: 404},
		"https://img.example.com/oil.jpg":  {Err: errors.New("connection refused")},
		"https://example.com/chart.svg":    {StatusCode: 200, ContentType: "text/html"},
	}}
	v := newValidator(t, checker, validator.WithLinks(false), validator.WithContent(false), validator.WithBaseURL("https://example.com"))
	raw := validBundle()
	raw["navigation"] = []interface{}{
		map[string]interface{}{
			"title":   "Charts",
			"content": `<p><img src="/chart.svg" alt="chart"/><img src="data:image/png;base64,AAAA"></p>`,
		},
	}

	res := v.ValidateContent(t.Context(), raw)
	assert.False(t, res.IsValid)
	assert.Equal(t, []string{"Image not accessible: https://img.example.com/jane.png (404)"}, res.Errors)
	assert.Equal(t, []string{
		"Could not validate image: https://img.example.com/oil.jpg",
		"URL may not be an image: https://example.com/chart.svg",
	}, res.Warnings)
	assert.Empty(t, checker.calls[probe.KindLink])
}

func TestValidateContentLinks(t *testing.T) {
	checker := &fakeChecker{results: map[string]probe.Result{
		"https://twitter.com/jane":     {StatusCode: 500},
		"https://linkedin.com/in/jane": {Err: errors.New("timeout")},
	}}
	v := newValidator(t, checker, validator.WithImages(false))
	raw := validBundle()
	raw["team"].([]interface{})[0].(map[string]interface{})["social"] = map[string]interface{}{
		"twitter":  "https://twitter.com/jane",
		"linkedin": "https://linkedin.com/in/jane",
		"github":   "#",
	}

	res := v.ValidateContent(t.Context(), raw)
	assert.True(t, res.IsValid, "broken links are warnings only")
	assert.Equal(t, []string{
		"Could not validate link: https://linkedin.com/in/jane",
		"External link may be broken: https://twitter.com/jane (500)",
	}, res.Warnings)
	assert.Empty(t, checker.calls[probe.KindImage])
}

func TestValidateContentStructure(t *testing.T) {
	checker := &fakeChecker{}
	v := newValidator(t, checker, validator.WithImages(false), validator.WithLinks(false))
	raw := validBundle()
	raw["navigation"] = []interface{}{
		map[string]interface{}{"title": "  ", "content": "<p>ok</p>"},
		map[string]interface{}{"title": "Empty"},
		map[string]interface{}{"title": "Broken", "content": "<div><p>open</div>"},
		map[string]interface{}{"label": "Labelled", "content": "text"},
	}

	res := v.ValidateContent(t.Context(), raw)
	assert.Equal(t, []string{"Navigation item 1 has empty title"}, res.Errors)
	assert.Equal(t, []string{
		"Navigation item 2 has no content",
		"Navigation item 3 may have unmatched HTML tags",
	}, res.Warnings)
	assert.Empty(t, checker.calls)
}

func TestValidateContentNumericIDs(t *testing.T) {
	checker := &fakeChecker{}
	v := newValidator(t, checker)
	raw := validBundle()
	raw["team"].([]interface{})[0].(map[string]interface{})["id"] = float64(7)
	raw["navigation"] = []interface{}{
		map[string]interface{}{"id": float64(1), "title": "", "content": ""},
	}

	res := v.ValidateContent(t.Context(), raw)
	assert.False(t, res.IsValid)
	assert.Equal(t, []string{"Navigation item 1 has empty title"}, res.Errors)
	assert.Equal(t, []string{"Navigation item 1 has no content"}, res.Warnings)
	assert.Equal(t, []string{"https://img.example.com/jane.png", "https://img.example.com/oil.jpg"}, checker.calls[probe.KindImage])
	assert.Equal(t, []string{"https://twitter.com/jane"}, checker.calls[probe.KindLink])
}

func TestValidateContentMistypedEntries(t *testing.T) {
	checker := &fakeChecker{}
	v := newValidator(t, checker)
	raw := validBundle()
	raw["team"] = append(raw["team"].([]interface{}), map[string]interface{}{
		"name":  []interface{}{"not", "a", "string"},
		"title": "Analyst",
		"image": "https://img.example.com/joe.png",
	})
	raw["navigation"] = append(raw["navigation"].([]interface{}),
		map[string]interface{}{"title": float64(2), "content": map[string]interface{}{}},
		map[string]interface{}{"title": true, "content": "<p>open"},
	)
	raw["pages"] = map[string]interface{}{"all": []interface{}{
		map[string]interface{}{"id": float64(1), "title": "Home", "isHomePage": true},
		map[string]interface{}{"id": "two", "title": "Broken"},
	}}

	res := v.ValidateContent(t.Context(), raw)
	assert.True(t, res.IsValid)
	if diff := cmp.Diff([]string{
		"Team member 2 missing description",
		"Navigation item 3 may have unmatched HTML tags",
		"Page entry 2 could not be read and is ignored",
	}, res.Warnings); diff != "" {
		t.Errorf("unexpected warnings (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{
		"https://img.example.com/jane.png",
		"https://img.example.com/joe.png",
		"https://img.example.com/oil.jpg",
	}, checker.calls[probe.KindImage])
}

func TestValidateContentDisabledPasses(t *testing.T) {
	checker := &fakeChecker{}
	v := newValidator(t, checker, validator.WithImages(false), validator.WithLinks(false), validator.WithContent(false))
	raw := validBundle()
	raw["navigation"] = []interface{}{map[string]interface{}{"title": ""}}

	res := v.ValidateContent(t.Context(), raw)
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, checker.calls)
}

func TestValidateContentMultipleHomePages(t *testing.T) {
	v := newValidator(t, &fakeChecker{})
	raw := validBundle()
	raw["pages"] = map[string]interface{}{
		"all": []interface{}{
			map[string]interface{}{"id": float64(1), "title": "Home", "order": float64(2), "isHomePage": true},
			map[string]interface{}{"id": float64(2), "title": "Start", "order": float64(1), "isHomePage": true},
			map[string]interface{}{"id": float64(3), "title": "About", "order": float64(3)},
		},
	}

	res := v.ValidateContent(t.Context(), raw)
	assert.True(t, res.IsValid)
	assert.Equal(t, []string{"Multiple home pages flagged (ids 2, 1); using 2"}, res.Warnings)
}

func TestValidateContentRecoversPanics(t *testing.T) {
	v := newValidator(t, &fakeChecker{panics: true})

	res := v.ValidateContent(t.Context(), validBundle())
	assert.False(t, res.IsValid)
	assert.Equal(t, []string{"Validation error: boom"}, res.Errors)
}

func TestValidateContentIdempotent(t *testing.T) {
	checker := &fakeChecker{results: map[string]probe.Result{
		"https://twitter.com/jane": {StatusCode: 404},
	}}
	v := newValidator(t, checker)
	raw := validBundle()
	raw["team"].([]interface{})[0].(map[string]interface{})["social"] = map[string]interface{}{
		"a": "https://a.example.com",
		"b": "https://b.example.com",
		"c": "https://c.example.com",
		"t": "https://twitter.com/jane",
	}

	first := v.ValidateContent(t.Context(), raw)
	for range 10 {
		assert.Equal(t, first, v.ValidateContent(t.Context(), raw))
	}
}

func TestValidateFreshness(t *testing.T) {
	v := newValidator(t, &fakeChecker{})
	tests := []struct {
		name        string
		lastUpdated interface{}
		want        []string
	}{
		{name: "missing", lastUpdated: nil, want: []string{"No last updated timestamp found"}},
		{name: "empty", lastUpdated: "", want: []string{"No last updated timestamp found"}},
		{name: "invalid", lastUpdated: "yesterday", want: []string{"Invalid lastUpdated timestamp: yesterday"}},
		{name: "fresh", lastUpdated: now.Add(-3 * 24 * time.Hour).Format(time.RFC3339), want: []string{}},
		{name: "seven days", lastUpdated: now.Add(-7 * 24 * time.Hour).Format(time.RFC3339), want: []string{}},
		{name: "aging", lastUpdated: now.Add(-(10*24 + 5) * time.Hour).Format(time.RFC3339), want: []string{"Content is 10 days old"}},
		{name: "thirty days and a bit", lastUpdated: now.Add(-(30*24 + 1) * time.Hour).Format(time.RFC3339), want: []string{"Content hasn't been updated in 30 days"}},
		{name: "stale", lastUpdated: now.Add(-40 * 24 * time.Hour).Format(time.RFC3339), want: []string{"Content hasn't been updated in 40 days"}},
		{name: "45 days", lastUpdated: now.Add(-45 * 24 * time.Hour).Format(time.RFC3339), want: []string{"Content hasn't been updated in 45 days"}},
		{name: "epoch millis", lastUpdated: float64(now.Add(-12 * 24 * time.Hour).UnixMilli()), want: []string{"Content is 12 days old"}},
		{name: "future", lastUpdated: now.Add(48 * time.Hour).Format(time.RFC3339), want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.ValidateFreshness(t.Context(), map[string]interface{}{
				"metadata": map[string]interface{}{"lastUpdated": tt.lastUpdated},
			})
			assert.True(t, res.IsValid)
			assert.Empty(t, res.Errors)
			assert.Equal(t, tt.want, res.Warnings)
		})
	}
}

func TestValidate(t *testing.T) {
	v := newValidator(t, &fakeChecker{})
	raw := map[string]interface{}{
		"metadata": map[string]interface{}{
			"title":       "TexEcon",
			"description": "Texas Economic Analysis",
			"lastUpdated": now.Add(-40 * 24 * time.Hour).Format(time.RFC3339),
		},
		"team": []interface{}{
			map[string]interface{}{"name": "Jane", "title": "Economist", "description": "Writes about oil"},
		},
		"navigation": []interface{}{},
	}

	res := v.Validate(t.Context(), raw)
	require.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	assert.Equal(t, []string{
		"Team member 1 missing image",
		"Navigation is empty",
		"Content hasn't been updated in 40 days",
	}, res.Warnings)
	assert.Equal(t, 94, validator.HealthScore(&res))
	assert.Equal(t, validator.StatusWarning, validator.StatusOf(&res))
}

package seo

import (
	"testing"

	"github.com/foomo/sitecheck/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parent(id int) *int {
	return &id
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyCMSFirst, s)

	s, err = ParseStrategy(" Hierarchy-First ")
	require.NoError(t, err)
	assert.Equal(t, StrategyHierarchyFirst, s)

	_, err = ParseStrategy("argument-first")
	require.Error(t, err)
}

func TestPathCMSFirst(t *testing.T) {
	r := NewResolver("https://texecon.com/")
	tests := []struct {
		name string
		node content.Node
		want string
	}{
		{"cms url wins over parent and argument", content.Node{ID: 1, Title: "Custom", URL: "/custom-path", ParentID: parent(3), Argument: "topic"}, "/custom-path"},
		{"parent", content.Node{ID: 2, Title: "Dr. Jared Hazleton!", ParentID: parent(3), Argument: "jared"}, "/section/dr-jared-hazleton"},
		{"argument", content.Node{ID: 3, Title: "Texas", Argument: "texas"}, "/topic/texas"},
		{"root url is not a cms url", content.Node{ID: 4, Title: "Home", URL: "/"}, "/page/4"},
		{"zero parent is top level", content.Node{ID: 5, Title: "Zero", ParentID: parent(0)}, "/page/5"},
		{"id fallback", content.Node{ID: 6, Title: "Nothing"}, "/page/6"},
		{"blank url", content.Node{ID: 7, Title: "Blank", URL: "  ", Argument: "blank"}, "/topic/blank"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Path(&tt.node))
		})
	}
}

func TestPathHierarchyFirst(t *testing.T) {
	r := NewResolver("https://texecon.com", WithStrategy(StrategyHierarchyFirst))
	assert.Equal(t, StrategyHierarchyFirst, r.Strategy())
	assert.Equal(t, "/section/custom", r.Path(&content.Node{ID: 1, Title: "Custom", URL: "/custom-path", ParentID: parent(3)}))
	assert.Equal(t, "/topic/texas", r.Path(&content.Node{ID: 2, Title: "Texas", URL: "/texas-page", Argument: "texas"}))
	assert.Equal(t, "/content/texas-page", r.Path(&content.Node{ID: 3, Title: "Texas Page", URL: "/texas-page"}))
	assert.Equal(t, "/page/4", r.Path(&content.Node{ID: 4, URL: "/"}))
}

func TestCanonicalURL(t *testing.T) {
	r := NewResolver("https://texecon.com///")
	assert.Equal(t, "https://texecon.com", r.BaseURL())
	assert.Equal(t, "https://texecon.com/custom-path", r.CanonicalURL(&content.Node{ID: 1, URL: "/custom-path"}))
	assert.Equal(t, "https://texecon.com/no-slash", r.CanonicalURL(&content.Node{ID: 1, URL: "no-slash"}))
	assert.Equal(t, "https://texecon.com/page/9", r.CanonicalURL(&content.Node{ID: 9}))
	assert.Equal(t, "https://blog.texecon.com/oil", r.CanonicalURL(&content.Node{ID: 10, URL: "https://blog.texecon.com/oil"}))
	assert.Equal(t, "https://texecon.com/content/oil", NewResolver("https://texecon.com", WithStrategy(StrategyHierarchyFirst)).CanonicalURL(&content.Node{ID: 10, Title: "Oil", URL: "https://blog.texecon.com/oil"}))
}

func TestDefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewResolver("").BaseURL())
}

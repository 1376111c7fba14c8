package content

import (
	"strings"
	"time"
)

// Node one page / menu entry of the cms page hierarchy
type Node struct {
	ID                int    `json:"id" validate:"gt=0"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	URL               string `json:"url" validate:"omitempty,startswith=/|url"` // cms provided canonical path, empty is fine
	Argument          string `json:"argument"`                                  // short machine token aka. topic key
	ParentID          *int   `json:"parent_page"`                               // nil or 0 => top level
	Order             int    `json:"order"`
	Content           string `json:"content"` // html body
	DisplayNavigation bool   `json:"display_navigation"`
	IsHomePage        bool   `json:"isHomePage"`
	LastModified      string `json:"modified_w3c"`
}

// HasParent is the node a child of another node
func (n *Node) HasParent() bool {
	return n.ParentID != nil && *n.ParentID != 0
}

// Parent returns the parent id or 0
func (n *Node) Parent() int {
	if !n.HasParent() {
		return 0
	}
	return *n.ParentID
}

// HasCustomURL the cms supplied a real path, not just the root
func (n *Node) HasCustomURL() bool {
	u := strings.TrimSpace(n.URL)
	return u != "" && u != RootPath
}

// Modified parses LastModified, ok is false when absent or not parseable
func (n *Node) Modified() (time.Time, bool) {
	return ParseTime(n.LastModified)
}

// ParseTime parses the ISO-8601 flavours the cms emits
func ParseTime(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

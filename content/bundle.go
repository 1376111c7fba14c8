package content

import (
	"strconv"

	"github.com/pkg/errors"
)

// Bundle the typed form of the content payload fetched for one build
type Bundle struct {
	Metadata   *Metadata `json:"metadata"`
	Team       []Member  `json:"team" validate:"dive"`
	Navigation []NavItem `json:"navigation" validate:"dive"`
	Insights   []Insight `json:"insights" validate:"dive"`
	Pages      Pages     `json:"pages"`
	// Skipped entries that could not be decoded, filled by Parse
	Skipped []SkippedItem `json:"-"`
}

// SkippedItem an entry of a list section that did not match its type
type SkippedItem struct {
	Section string
	// Index 1-based position in the section
	Index int
	Err   error
}

func (s SkippedItem) Error() string {
	return s.Section + " entry " + strconv.Itoa(s.Index) + " could not be decoded: " + s.Err.Error()
}

// ID an identifier the cms delivers either as string or as number
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*id = ""
	case string:
		*id = ID(t)
	case float64:
		*id = ID(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		return errors.Errorf("invalid id: %s", data)
	}
	return nil
}

// Metadata site wide information
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	LastUpdated string `json:"lastUpdated"`
	SourcePages int    `json:"sourcePages,omitempty"`
}

// Member a team member card
type Member struct {
	ID          ID                     `json:"id"`
	Name        string                 `json:"name"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Image       string                 `json:"image" validate:"omitempty,uri"`
	Social      map[string]interface{} `json:"social"`
	PageURL     string                 `json:"page_url,omitempty"`
}

// NavItem an entry of the main navigation
type NavItem struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Label       string `json:"label"`
	Href        string `json:"href"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// Insight an insight / content card
type Insight struct {
	ID       ID     `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Excerpt  string `json:"excerpt"`
	Image    string `json:"image" validate:"omitempty,uri"`
	Slug     string `json:"slug"`
}

// Pages the page hierarchy as delivered by the cms
type Pages struct {
	All []Node `json:"all" validate:"dive"`
}

// Nodes all nodes of the bundle, nil safe
func (b *Bundle) Nodes() []Node {
	if b == nil {
		return nil
	}
	return b.Pages.All
}

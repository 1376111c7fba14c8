package seo

import (
	"bytes"
	"encoding/xml"
	"sort"
	"strconv"
	"time"

	"github.com/foomo/sitecheck/pkg/hierarchy"
	"github.com/pkg/errors"
)

// SitemapNamespace the urlset schema
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFrequency values allowed for changefreq
type ChangeFrequency string

const (
	ChangeFrequencyAlways  ChangeFrequency = "always"
	ChangeFrequencyHourly  ChangeFrequency = "hourly"
	ChangeFrequencyDaily   ChangeFrequency = "daily"
	ChangeFrequencyWeekly  ChangeFrequency = "weekly"
	ChangeFrequencyMonthly ChangeFrequency = "monthly"
	ChangeFrequencyYearly  ChangeFrequency = "yearly"
	ChangeFrequencyNever   ChangeFrequency = "never"
)

const (
	PriorityRoot    = "1.0"
	PriorityHome    = "1.0"
	PriorityTop     = "0.8"
	PrioritySection = "0.6"
)

// SitemapEntry one url of the sitemap
type SitemapEntry struct {
	URL             string          `json:"url" xml:"loc"`
	LastModified    string          `json:"lastModified" xml:"lastmod"`
	ChangeFrequency ChangeFrequency `json:"changeFrequency" xml:"changefreq"`
	Priority        string          `json:"priority" xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name       `xml:"urlset"`
	XMLNS   string         `xml:"xmlns,attr"`
	URLs    []SitemapEntry `xml:"url"`
}

// SitemapEntries the root entry followed by one entry for every node that is
// displayed in navigation, in ascending id order. Entries are not
// de-duplicated here, see WithoutDuplicates.
func (r *Resolver) SitemapEntries(h *hierarchy.Hierarchy) []SitemapEntry {
	buildTime := r.now().UTC().Format(time.RFC3339)
	entries := []SitemapEntry{{
		URL:             r.baseURL,
		LastModified:    buildTime,
		ChangeFrequency: ChangeFrequencyDaily,
		Priority:        PriorityRoot,
	}}

	home := h.HomePage()
	for _, n := range h.Nodes() {
		if !n.DisplayNavigation {
			continue
		}
		entry := SitemapEntry{
			URL:             r.CanonicalURL(n),
			LastModified:    buildTime,
			ChangeFrequency: ChangeFrequencyWeekly,
			Priority:        PriorityTop,
		}
		switch {
		case home != nil && home.ID == n.ID:
			entry.Priority = PriorityHome
			entry.ChangeFrequency = ChangeFrequencyDaily
		case n.HasParent():
			entry.Priority = PrioritySection
		}
		if modified, ok := n.Modified(); ok {
			entry.LastModified = modified.UTC().Format(time.RFC3339)
		}
		entries = append(entries, entry)
	}
	return entries
}

// SortByPriority highest priority first, then by url
func SortByPriority(entries []SitemapEntry) []SitemapEntry {
	ret := make([]SitemapEntry, len(entries))
	copy(ret, entries)
	sort.SliceStable(ret, func(i, j int) bool {
		pi, pj := priorityValue(ret[i].Priority), priorityValue(ret[j].Priority)
		if pi != pj {
			return pi > pj
		}
		return ret[i].URL < ret[j].URL
	})
	return ret
}

// WithoutDuplicates drops every entry whose url was already listed, the first
// occurrence is kept
func WithoutDuplicates(entries []SitemapEntry) []SitemapEntry {
	seen := make(map[string]bool, len(entries))
	ret := make([]SitemapEntry, 0, len(entries))
	for _, e := range entries {
		if seen[e.URL] {
			continue
		}
		seen[e.URL] = true
		ret = append(ret, e)
	}
	return ret
}

// SitemapXML renders entries as urlset document
func SitemapXML(entries []SitemapEntry) ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(buf)
	enc.Indent("", "  ")
	if err := enc.Encode(urlSet{XMLNS: SitemapNamespace, URLs: entries}); err != nil {
		return nil, errors.Wrap(err, "failed to encode sitemap")
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

func priorityValue(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

package seo

import (
	"regexp"
	"strings"
	"time"

	"github.com/foomo/sitecheck/content"
	"github.com/foomo/sitecheck/pkg/utils"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	metaDescriptionMinLength = 50
	metaDescriptionMaxLength = 160
)

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary

	keywordStrip = regexp.MustCompile(`[^\w` + whitespace + `]`)
	keywordSplit = regexp.MustCompile(`[` + whitespace + `]+`)
)

// Keywords for a node: the site keywords, the title and up to three
// significant words of the description
func (r *Resolver) Keywords(n *content.Node) []string {
	keywords := append([]string{}, r.keywords...)
	keywords = append(keywords, strings.ToLower(n.Title))

	if n.Description != "" {
		words := keywordSplit.Split(keywordStrip.ReplaceAllString(strings.ToLower(n.Description), ""), -1)
		var picked int
		for _, word := range words {
			if picked == 3 {
				break
			}
			if len(word) > 3 {
				keywords = append(keywords, word)
				picked++
			}
		}
	}
	if n.HasParent() {
		keywords = append(keywords, r.region+" economic trends", "regional analysis")
	}
	if n.Argument != "" {
		keywords = append(keywords, "economic topic", "economic data")
	}

	seen := map[string]bool{}
	ret := keywords[:0]
	for _, keyword := range keywords {
		if seen[keyword] {
			continue
		}
		seen[keyword] = true
		ret = append(ret, keyword)
	}
	return ret
}

// MetaDescription the node description when it is long enough, otherwise a
// description built from the title
func (r *Resolver) MetaDescription(n *content.Node) string {
	description := []rune(n.Description)
	if len(description) > metaDescriptionMinLength {
		if len(description) > metaDescriptionMaxLength {
			return string(description[:metaDescriptionMaxLength-3]) + "..."
		}
		return n.Description
	}
	return n.Title + " - " + r.tagline + ". Expert analysis and commentary on the " + r.region + " economy."
}

// StructuredData schema.org article description of a node
func (r *Resolver) StructuredData(n *content.Node) map[string]interface{} {
	published := r.now().UTC().Format(time.RFC3339)
	modified := published
	if t, ok := n.Modified(); ok {
		modified = t.UTC().Format(time.RFC3339)
	}
	organization := map[string]interface{}{
		"@type": "Organization",
		"name":  r.siteName,
		"url":   r.baseURL,
	}
	return map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "Article",
		"headline":    n.Title,
		"description": r.MetaDescription(n),
		"keywords":    strings.Join(r.Keywords(n), ", "),
		"author":      organization,
		"publisher": map[string]interface{}{
			"@type": "Organization",
			"name":  r.siteName,
			"url":   r.baseURL,
			"logo": map[string]interface{}{
				"@type": "ImageObject",
				"url":   utils.JoinURL(r.baseURL, "favicon-192x192.png"),
			},
		},
		"datePublished": published,
		"dateModified":  modified,
		"mainEntityOfPage": map[string]interface{}{
			"@type": "WebPage",
			"@id":   r.CanonicalURL(n),
		},
	}
}

// StructuredDataJSON json-ld document for a node
func (r *Resolver) StructuredDataJSON(n *content.Node) ([]byte, error) {
	return json.MarshalIndent(r.StructuredData(n), "", content.Indent)
}

// FormatTitle title cases every word of a menu title
func FormatTitle(title string) string {
	return cases.Title(language.English).String(strings.ToLower(title))
}

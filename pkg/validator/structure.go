package validator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/foomo/sitecheck/content"
	"github.com/foomo/sitecheck/pkg/hierarchy"
)

var (
	openTagPattern  = regexp.MustCompile(`<[^/][^>]*>`)
	closeTagPattern = regexp.MustCompile(`</[^>]*>`)
)

func checkRequiredFields(raw content.Raw, iss *issues) {
	if metadata := raw["metadata"]; !content.Truthy(metadata) {
		iss.errorf("Missing metadata section")
	} else {
		if !content.Truthy(content.Field(metadata, "title")) {
			iss.errorf("Missing metadata title")
		}
		if !content.Truthy(content.Field(metadata, "description")) {
			iss.errorf("Missing metadata description")
		}
		if !content.Truthy(content.Field(metadata, "lastUpdated")) {
			iss.warnf("Missing lastUpdated timestamp")
		}
	}

	if team, ok := content.Array(raw["team"]); !ok {
		iss.errorf("Missing or invalid team section")
	} else {
		for i, member := range team {
			n := i + 1
			if !content.Truthy(content.Field(member, "name")) {
				iss.errorf("Team member %d missing name", n)
			}
			if !content.Truthy(content.Field(member, "title")) {
				iss.errorf("Team member %d missing title", n)
			}
			if !content.Truthy(content.Field(member, "description")) {
				iss.warnf("Team member %d missing description", n)
			}
			if !content.Truthy(content.Field(member, "image")) {
				iss.warnf("Team member %d missing image", n)
			}
		}
	}

	if navigation, ok := content.Array(raw["navigation"]); !ok {
		iss.errorf("Missing or invalid navigation section")
	} else if len(navigation) == 0 {
		iss.warnf("Navigation is empty")
	}
}

// checkContentStructure works on the raw navigation entries so that an entry
// with unexpected field types is still checked
func checkContentStructure(raw content.Raw, iss *issues) {
	navigation, _ := content.Array(raw["navigation"])
	for i, item := range navigation {
		n := i + 1
		title := content.Field(item, "title")
		if !content.Truthy(title) {
			title = content.Field(item, "label")
		}
		if content.Blank(title) {
			iss.errorf("Navigation item %d has empty title", n)
		}
		if content.Blank(content.Field(item, "content")) {
			iss.warnf("Navigation item %d has no content", n)
		}
	}

	for i, item := range navigation {
		body, _ := content.String(content.Field(item, "content"))
		if body == "" {
			continue
		}
		if !tagsBalanced(body) {
			iss.warnf("Navigation item %d may have unmatched HTML tags", i+1)
		}
	}
}

func checkPages(b *content.Bundle, iss *issues) {
	for _, skipped := range b.Skipped {
		if skipped.Section == content.SectionPages {
			iss.warnf("Page entry %d could not be read and is ignored", skipped.Index)
		}
	}

	homes := hierarchy.Build(b.Nodes()).HomePages()
	if len(homes) < 2 {
		return
	}
	ids := make([]string, 0, len(homes))
	for _, home := range homes {
		ids = append(ids, strconv.Itoa(home.ID))
	}
	iss.warnf("Multiple home pages flagged (ids %s); using %s", strings.Join(ids, ", "), ids[0])
}

// tagsBalanced compares the number of opening and closing tags, this is a
// heuristic and not a parser
func tagsBalanced(body string) bool {
	return len(openTagPattern.FindAllString(body, -1)) == len(closeTagPattern.FindAllString(body, -1))
}

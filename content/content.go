// contains data structures that describe the content bundle of a site build
package content

const (
	// Indent for json indentation
	Indent string = "\t"
	// PathSeparator separator for paths in URIs
	PathSeparator = "/"
	// RootPath the path of the site root
	RootPath = PathSeparator
)

// list sections of a bundle
const (
	SectionTeam       = "team"
	SectionNavigation = "navigation"
	SectionInsights   = "insights"
	SectionPages      = "pages.all"
)

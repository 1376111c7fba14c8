package handler

// Route type
type Route string

const (
	// RouteSitemap sitemap.xml of the current bundle
	RouteSitemap Route = "sitemap.xml"
	// RouteRobots robots.txt
	RouteRobots Route = "robots.txt"
	// RouteReport last validation result with health score and status
	RouteReport Route = "report"
	// RouteValidate trigger a validation run
	RouteValidate Route = "validate"
	// RouteBundle the raw bundle
	RouteBundle Route = "bundle"
)

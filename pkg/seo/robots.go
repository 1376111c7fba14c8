package seo

import (
	"strings"

	"github.com/foomo/sitecheck/pkg/utils"
)

// RobotsDisallow paths that must never be crawled
var RobotsDisallow = []string{
	"/admin/",
	"/_dev/",
	"/*.json$",
	"/*.map$",
}

// RobotsTxt allow all policy with a sitemap reference
func RobotsTxt(baseURL string) string {
	b := &strings.Builder{}
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n\n")
	b.WriteString("Sitemap: " + utils.JoinURL(baseURL, "sitemap.xml") + "\n\n")
	b.WriteString("# Block development and admin routes\n")
	for _, path := range RobotsDisallow {
		b.WriteString("Disallow: " + path + "\n")
	}
	return b.String()
}

// RobotsTxt for the resolver's site
func (r *Resolver) RobotsTxt() string {
	return RobotsTxt(r.baseURL)
}

package seo

import (
	"strconv"
	"strings"
	"time"

	"github.com/foomo/sitecheck/content"
	"github.com/foomo/sitecheck/pkg/utils"
	"github.com/pkg/errors"
)

const (
	DefaultBaseURL  = "https://texecon.com"
	DefaultSiteName = "TexEcon"
	DefaultTagline  = "Texas Economic Analysis & Insights"
	DefaultRegion   = "Texas"
)

// Strategy decides in which order the path rules are applied
type Strategy string

const (
	// StrategyCMSFirst a real cms url wins, everything else is derived from the hierarchy
	StrategyCMSFirst Strategy = "cms-first"
	// StrategyHierarchyFirst the older scheme: parent, argument, url, id
	StrategyHierarchyFirst Strategy = "hierarchy-first"
)

// ParseStrategy parses a strategy name
func ParseStrategy(v string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(v))) {
	case StrategyCMSFirst, "":
		return StrategyCMSFirst, nil
	case StrategyHierarchyFirst:
		return StrategyHierarchyFirst, nil
	default:
		return "", errors.Errorf("unknown path strategy %q (supported: %s, %s)", v, StrategyCMSFirst, StrategyHierarchyFirst)
	}
}

type (
	// Resolver derives paths, canonical urls and sitemap artifacts for nodes
	Resolver struct {
		baseURL  string
		strategy Strategy
		siteName string
		tagline  string
		region   string
		keywords []string
		now      func() time.Time
	}
	Option func(*Resolver)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewResolver(baseURL string, opts ...Option) *Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	inst := &Resolver{
		baseURL:  strings.TrimRight(baseURL, "/"),
		strategy: StrategyCMSFirst,
		siteName: DefaultSiteName,
		tagline:  DefaultTagline,
		region:   DefaultRegion,
		keywords: []string{"Texas economy", "economic analysis"},
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithStrategy(v Strategy) Option {
	return func(o *Resolver) {
		o.strategy = v
	}
}

func WithSiteName(v string) Option {
	return func(o *Resolver) {
		o.siteName = v
	}
}

func WithTagline(v string) Option {
	return func(o *Resolver) {
		o.tagline = v
	}
}

func WithRegion(v string) Option {
	return func(o *Resolver) {
		o.region = v
	}
}

func WithKeywords(v ...string) Option {
	return func(o *Resolver) {
		o.keywords = v
	}
}

func WithNow(v func() time.Time) Option {
	return func(o *Resolver) {
		o.now = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Getter
// ------------------------------------------------------------------------------------------------

func (r *Resolver) BaseURL() string {
	return r.baseURL
}

func (r *Resolver) Strategy() Strategy {
	return r.strategy
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Path the site relative path of a node, first matching rule wins
func (r *Resolver) Path(n *content.Node) string {
	if r.strategy == StrategyCMSFirst && n.HasCustomURL() {
		return n.URL
	}
	switch {
	case n.HasParent():
		return "/section/" + Slug(n.Title)
	case n.Argument != "":
		return "/topic/" + n.Argument
	case n.HasCustomURL():
		return "/content/" + Slug(n.Title)
	default:
		return "/page/" + strconv.Itoa(n.ID)
	}
}

// CanonicalURL absolute url of a node, absolute cms urls are kept as they are
func (r *Resolver) CanonicalURL(n *content.Node) string {
	p := r.Path(n)
	if utils.IsValidURL(p) {
		return p
	}
	return utils.JoinURL(r.baseURL, p)
}

package responses

import (
	"github.com/foomo/sitecheck/content"
)

type Stats struct {
	NumberOfNodes           int `json:"numberOfNodes"`
	NumberOfTeamMembers     int `json:"numberOfTeamMembers"`
	NumberOfNavigationItems int `json:"numberOfNavigationItems"`
	NumberOfInsights        int `json:"numberOfInsights"`
	// seconds
	RepoRuntime float64 `json:"repoRuntime"`
	// seconds
	OwnRuntime float64 `json:"ownRuntime"`
}

// NewStats counts the sections of b
func NewStats(b *content.Bundle) Stats {
	if b == nil {
		return Stats{}
	}
	return Stats{
		NumberOfNodes:           len(b.Nodes()),
		NumberOfTeamMembers:     len(b.Team),
		NumberOfNavigationItems: len(b.Navigation),
		NumberOfInsights:        len(b.Insights),
	}
}

package validator

import (
	"context"
	"math"
	"time"

	"github.com/foomo/sitecheck/content"
)

const (
	staleAfterDays = 30
	agingAfterDays = 7
)

// ValidateFreshness checks the age of metadata.lastUpdated, it only ever
// produces warnings
func (v *Validator) ValidateFreshness(ctx context.Context, raw interface{}) (ret Result) {
	now := v.now()
	iss := &issues{}
	defer v.finish(iss, now, &ret)

	lastUpdated := content.Field(content.Field(raw, "metadata"), "lastUpdated")
	if !content.Truthy(lastUpdated) {
		iss.warnf("No last updated timestamp found")
		return
	}

	updated, ok := lastUpdatedTime(lastUpdated)
	if !ok {
		iss.warnf("Invalid lastUpdated timestamp: %v", lastUpdated)
		return
	}

	days := now.Sub(updated).Hours() / 24
	switch {
	case days > staleAfterDays:
		iss.warnf("Content hasn't been updated in %d days", int(math.Floor(days)))
	case days > agingAfterDays:
		iss.warnf("Content is %d days old", int(math.Floor(days)))
	}
	return
}

// lastUpdatedTime accepts timestamp strings and epoch milliseconds
func lastUpdatedTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		return content.ParseTime(t)
	case float64:
		return time.UnixMilli(int64(t)), true
	default:
		return time.Time{}, false
	}
}

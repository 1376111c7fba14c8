package responses

import (
	"github.com/foomo/sitecheck/pkg/validator"
)

// Report the last validation result together with its health summary
type Report struct {
	Result      *validator.Result `json:"result" yaml:"result"`
	HealthScore int               `json:"healthScore" yaml:"healthScore"`
	Status      validator.Status  `json:"status" yaml:"status"`
	Source      string            `json:"source,omitempty" yaml:"source,omitempty"`
}

func NewReport(source string, result *validator.Result) *Report {
	return &Report{
		Result:      result,
		HealthScore: validator.HealthScore(result),
		Status:      validator.StatusOf(result),
		Source:      source,
	}
}

package cmd

import (
	"net/http"
	"time"

	keelhttp "github.com/foomo/keel/net/http"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/foomo/sitecheck/pkg/probe"
	"github.com/foomo/sitecheck/pkg/seo"
	"github.com/foomo/sitecheck/pkg/validator"
)

func addSiteFlags(flags *pflag.FlagSet, v *viper.Viper) {
	addBaseURLFlag(flags, v)
	addPathStrategyFlag(flags, v)
}

func addValidatorFlags(flags *pflag.FlagSet, v *viper.Viper) {
	addProbeTimeoutFlag(flags, v)
	addProbeConcurrencyFlag(flags, v)
	addProbeRateFlag(flags, v)
	addValidateImagesFlag(flags, v)
	addValidateLinksFlag(flags, v)
	addValidateContentFlag(flags, v)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return keelhttp.NewHTTPClient(
		keelhttp.HTTPClientWithTimeout(timeout),
		keelhttp.HTTPClientWithTelemetry(),
	)
}

func newResolver(v *viper.Viper) (*seo.Resolver, error) {
	strategy, err := seo.ParseStrategy(pathStrategyFlag(v))
	if err != nil {
		return nil, err
	}
	return seo.NewResolver(baseURLFlag(v), seo.WithStrategy(strategy)), nil
}

func newValidator(l *zap.Logger, v *viper.Viper) *validator.Validator {
	checker := probe.New(l,
		probe.WithHTTPClient(newHTTPClient(0)),
		probe.WithTimeout(probeTimeoutFlag(v)),
		probe.WithConcurrency(probeConcurrencyFlag(v)),
		probe.WithRateLimit(probeRateFlag(v), 1),
		probe.WithUserAgent("sitecheck/"+version),
	)
	return validator.New(l,
		validator.WithChecker(checker),
		validator.WithImages(validateImagesFlag(v)),
		validator.WithLinks(validateLinksFlag(v)),
		validator.WithContent(validateContentFlag(v)),
		validator.WithBaseURL(baseURLFlag(v)),
	)
}

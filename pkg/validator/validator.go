package validator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/foomo/sitecheck/content"
	"github.com/foomo/sitecheck/pkg/probe"
)

type (
	// Checker probes urls, results have to be returned in input order
	Checker interface {
		Check(ctx context.Context, kind probe.Kind, urls []string) []probe.Result
	}
	Validator struct {
		l       *zap.Logger
		checker Checker
		images  bool
		links   bool
		content bool
		timeout time.Duration
		baseURL string
		now     func() time.Time
	}
	Option func(*Validator)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// New validator with all passes enabled. Reachability passes use a
// probe.Checker unless WithChecker is given.
func New(l *zap.Logger, opts ...Option) *Validator {
	inst := &Validator{
		l:       l.Named("validator"),
		images:  true,
		links:   true,
		content: true,
		timeout: probe.DefaultTimeout,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(inst)
	}

	if inst.checker == nil {
		inst.checker = probe.New(l, probe.WithTimeout(inst.timeout))
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithImages(v bool) Option {
	return func(o *Validator) {
		o.images = v
	}
}

func WithLinks(v bool) Option {
	return func(o *Validator) {
		o.links = v
	}
}

func WithContent(v bool) Option {
	return func(o *Validator) {
		o.content = v
	}
}

// WithTimeout per probe timeout of the default checker
func WithTimeout(v time.Duration) Option {
	return func(o *Validator) {
		if v > 0 {
			o.timeout = v
		}
	}
}

func WithChecker(v Checker) Option {
	return func(o *Validator) {
		o.checker = v
	}
}

// WithBaseURL used to resolve relative image references
func WithBaseURL(v string) Option {
	return func(o *Validator) {
		o.baseURL = v
	}
}

func WithNow(v func() time.Time) Option {
	return func(o *Validator) {
		o.now = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// ValidateContent runs the structural passes and, if enabled, the image,
// link and content passes. Issues are reported in that order. The function
// never fails, unexpected faults end up as an error entry of the result.
func (v *Validator) ValidateContent(ctx context.Context, raw interface{}) (ret Result) {
	now := v.now()
	iss := &issues{}
	defer v.finish(iss, now, &ret)

	data, ok := content.Object(raw)
	if !ok || data == nil {
		iss.errorf("Content data is missing or invalid")
		return
	}

	checkRequiredFields(data, iss)

	if v.images || v.links {
		if err := v.checkReachability(ctx, data, iss); err != nil {
			v.l.Error("reachability check failed", zap.Error(err))
			iss.errorf("Validation error: %v", err)
			return
		}
	}

	if v.content {
		checkContentStructure(data, iss)
		bundle := content.Parse(data)
		if len(bundle.Skipped) > 0 {
			v.l.Debug("skipped bundle entries", zap.Int("count", len(bundle.Skipped)))
		}
		checkPages(bundle, iss)
	}

	v.l.Debug("validated content",
		zap.Int("errors", len(iss.errors)),
		zap.Int("warnings", len(iss.warnings)),
	)
	return
}

// Validate content and freshness merged into one result
func (v *Validator) Validate(ctx context.Context, raw interface{}) Result {
	return Merge(v.ValidateContent(ctx, raw), v.ValidateFreshness(ctx, raw))
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (v *Validator) finish(iss *issues, now time.Time, ret *Result) {
	if r := recover(); r != nil {
		v.l.Error("validation failed", zap.Any("panic", r))
		iss.errorf("Validation error: %v", r)
	}
	*ret = iss.result(now)
}

package content

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary

	validate     *validator.Validate
	validateOnce sync.Once
)

// DecodeRaw decodes a bundle into its untyped form
func DecodeRaw(data []byte) (interface{}, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode bundle")
	}
	return raw, nil
}

// Parse converts the raw form into a Bundle. List sections are decoded entry
// by entry, an entry that does not match its type is left out and recorded in
// Bundle.Skipped, so that one bad entry never hides the rest of its section.
// A section with the wrong shape stays empty.
func Parse(raw interface{}) *Bundle {
	b := &Bundle{}
	o, ok := Object(raw)
	if !ok {
		return b
	}
	if _, ok := Object(o["metadata"]); ok {
		if err := decodeValue(o["metadata"], &b.Metadata); err != nil {
			b.Metadata = nil
		}
	}
	b.Team = decodeItems[Member](b, SectionTeam, o["team"])
	b.Navigation = decodeItems[NavItem](b, SectionNavigation, o["navigation"])
	b.Insights = decodeItems[Insight](b, SectionInsights, o["insights"])
	b.Pages.All = decodeItems[Node](b, SectionPages, Field(o["pages"], "all"))
	return b
}

func decodeItems[T any](b *Bundle, section string, v interface{}) []T {
	items, ok := Array(v)
	if !ok {
		return nil
	}
	ret := make([]T, 0, len(items))
	for i, item := range items {
		var t T
		if err := decodeValue(item, &t); err != nil {
			b.Skipped = append(b.Skipped, SkippedItem{Section: section, Index: i + 1, Err: err})
			continue
		}
		ret = append(ret, t)
	}
	return ret
}

func decodeValue(v interface{}, target interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// Unmarshal strictly decodes a bundle into its typed form
func Unmarshal(data []byte) (*Bundle, error) {
	b := &Bundle{}
	if err := json.Unmarshal(data, b); err != nil {
		return nil, errors.Wrap(err, "failed to decode bundle")
	}
	return b, nil
}

// Check runs the ingestion checks on a typed bundle: field constraints and
// unique node ids. All problems are reported at once.
func Check(b *Bundle) error {
	if b == nil {
		return errors.New("bundle must not be nil")
	}
	var err error
	if errValidate := validatorInstance().Struct(b); errValidate != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(errValidate, &fieldErrs) {
			for _, fieldErr := range fieldErrs {
				err = multierr.Append(err, fmt.Errorf("invalid field %s: failed on %q", fieldErr.Namespace(), fieldErr.Tag()))
			}
		} else {
			err = multierr.Append(err, errValidate)
		}
	}
	for _, skipped := range b.Skipped {
		err = multierr.Append(err, skipped)
	}
	seen := map[int]int{}
	for _, n := range b.Pages.All {
		seen[n.ID]++
	}
	var duplicates []int
	for id, count := range seen {
		if count > 1 {
			duplicates = append(duplicates, id)
		}
	}
	sort.Ints(duplicates)
	for _, id := range duplicates {
		err = multierr.Append(err, errors.Errorf("duplicate node with id: %d", id))
	}
	return err
}

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

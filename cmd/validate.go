package cmd

import (
	"github.com/foomo/keel/log"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/foomo/sitecheck/content"
	"github.com/foomo/sitecheck/pkg/repo"
	"github.com/foomo/sitecheck/pkg/validator"
	"github.com/foomo/sitecheck/responses"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func NewValidateCommand() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:          "validate <url|file>",
		Short:        "Validate a content bundle and print a report",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := log.Logger().Named("validate")
			source := args[0]

			data, err := repo.Fetch(cmd.Context(), newHTTPClient(repositoryTimeoutFlag(v)), source)
			if err != nil {
				return err
			}

			// undecodable bundles are reported like any other invalid content
			raw, err := content.DecodeRaw(data)
			if err != nil {
				l.Warn("could not decode bundle", zap.Error(err))
			}

			res := newValidator(l, v).Validate(cmd.Context(), raw)
			report := responses.NewReport(source, &res)

			out, err := encodeReport(outputFlag(v), report)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}

			if code := exitCode(&res, failOnWarningsFlag(v)); code != 0 {
				return &exitError{
					code: code,
					err:  errors.Errorf("validation failed: %d errors, %d warnings", len(res.Errors), len(res.Warnings)),
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	addSiteFlags(flags, v)
	addValidatorFlags(flags, v)
	addRepositoryTimeoutFlag(flags, v)
	addOutputFlag(flags, v)
	addFailOnWarningsFlag(flags, v)

	return cmd
}

func encodeReport(format string, report *responses.Report) ([]byte, error) {
	switch format {
	case "json", "":
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode report")
		}
		return append(out, '\n'), nil
	case "yaml":
		out, err := yaml.Marshal(report)
		return out, errors.Wrap(err, "failed to encode report")
	default:
		return nil, errors.Errorf("unknown output format %q (supported: json, yaml)", format)
	}
}

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

// exitCode of a validation result
func exitCode(res *validator.Result, failOnWarnings bool) int {
	switch {
	case res == nil, !res.IsValid:
		return 1
	case failOnWarnings && len(res.Warnings) > 0:
		return 2
	default:
		return 0
	}
}

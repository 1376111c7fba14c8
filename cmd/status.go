package cmd

import (
	"github.com/foomo/keel/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/foomo/sitecheck/client"
	"github.com/foomo/sitecheck/responses"
)

func NewStatusCommand() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:          "status <server-url>",
		Short:        "Print the validation report of a running sitecheck server",
		Example:      "  sitecheck status http://127.0.0.1:8080/sitecheck --trigger",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := log.Logger().Named("status")

			c, err := client.NewHTTPClient(args[0], client.HTTPTransportWithHTTPClient(newHTTPClient(repositoryTimeoutFlag(v))))
			if err != nil {
				return err
			}
			defer c.ShutDown()

			var report *responses.Report
			if triggerFlag(v) {
				l.Debug("triggering validation run", zap.Bool("update", updateFlag(v)))
				report, err = c.Validate(cmd.Context(), updateFlag(v))
			} else {
				report, err = c.Report(cmd.Context())
			}
			if err != nil {
				return errors.Wrap(err, "failed to get report")
			}

			out, err := encodeReport(outputFlag(v), report)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}

			if code := exitCode(report.Result, failOnWarningsFlag(v)); code != 0 {
				return &exitError{
					code: code,
					err:  errors.Errorf("server reports status %s", report.Status),
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	addRepositoryTimeoutFlag(flags, v)
	addTriggerFlag(flags, v)
	addUpdateFlag(flags, v)
	addOutputFlag(flags, v)
	addFailOnWarningsFlag(flags, v)

	return cmd
}

package cmd

import (
	"context"

	"github.com/foomo/keel"
	"github.com/foomo/keel/healthz"
	"github.com/foomo/keel/net/http/middleware"
	"github.com/foomo/keel/service"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/foomo/sitecheck/pkg/handler"
	"github.com/foomo/sitecheck/pkg/monitor"
	"github.com/foomo/sitecheck/pkg/repo"
)

func NewServeCommand() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "serve <url|file>",
		Short: "Start the http server",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			var comps []string
			if len(args) == 0 {
				comps = cobra.AppendActiveHelp(comps, "You must specify the url or file of the content bundle")
			} else {
				comps = cobra.AppendActiveHelp(comps, "This command does not take any more arguments")
			}
			return comps, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := newResolver(v)
			if err != nil {
				return err
			}

			svr := keel.NewServer(
				keel.WithHTTPPrometheusService(servicePrometheusEnabledFlag(v)),
				keel.WithHTTPHealthzService(serviceHealthzEnabledFlag(v)),
				keel.WithPrometheusMeter(servicePrometheusEnabledFlag(v)),
				keel.WithGracefulPeriod(gracefulPeriodFlag(v)),
				keel.WithOTLPGRPCTracer(otelEnabledFlag(v)),
				keel.WithHTTPPProfService(servicePProfEnabledFlag(v)),
			)

			l := svr.Logger()

			storage, err := repo.NewStorage(cmd.Context(), l,
				storageTypeFlag(v),
				historyDirFlag(v),
				storageBlobBucketFlag(v),
				storageBlobPrefixFlag(v),
			)
			if err != nil {
				return errors.Wrap(err, "failed to create storage")
			}

			history, err := repo.NewHistory(l.Named("inst.history"),
				repo.HistoryWithStorage(storage),
				repo.HistoryWithHistoryLimit(historyLimitFlag(v)),
			)
			if err != nil {
				return errors.Wrap(err, "failed to create history")
			}

			r := repo.New(l.Named("inst.repo"),
				args[0],
				history,
				repo.WithHTTPClient(newHTTPClient(repositoryTimeoutFlag(v))),
				repo.WithPollInterval(pollIntervalFlag(v)),
				repo.WithPoll(pollFlag(v)),
				repo.WithStrict(strictFlag(v)),
			)

			m := monitor.New(l.Named("inst.monitor"), r, newValidator(l.Named("inst.validator"), v),
				monitor.WithInterval(validationIntervalFlag(v)),
			)

			// every new bundle gets validated right away
			r.OnUpdated(func(*repo.Snapshot) {
				m.Trigger(context.WithoutCancel(cmd.Context()))
			})

			isLoadedHealthzFn := healthz.NewHealthzerFn(func(ctx context.Context) error {
				if !r.Loaded() {
					return errors.New("bundle not loaded yet")
				}
				return nil
			})
			svr.AddStartupHealthzers(isLoadedHealthzFn)
			svr.AddReadinessHealthzers(isLoadedHealthzFn)

			svr.AddClosers(func(ctx context.Context) error {
				return history.Close()
			})

			svr.AddServices(
				service.NewGoRoutine(l.Named("go.repo"), "repo", func(ctx context.Context, l *zap.Logger) error {
					return r.Start(ctx)
				}),
				service.NewGoRoutine(l.Named("go.monitor"), "monitor", func(ctx context.Context, l *zap.Logger) error {
					return m.Start(ctx)
				}),
				service.NewHTTP(l.Named("svc.http"), "http", addressFlag(v),
					handler.NewHTTP(l.Named("inst.handler"), r, m, resolver,
						handler.WithBasePath(basePathFlag(v)),
						handler.WithSitemapSort(sitemapSortFlag(v)),
						handler.WithSitemapDedupe(sitemapDedupeFlag(v)),
					),
					middleware.Telemetry(),
					middleware.Logger(),
					middleware.GZip(middleware.GZipWithLevel(gzipLevelFlag(v))),
					middleware.Recover(),
				),
			)

			svr.Run()
			return nil
		},
	}

	flags := cmd.Flags()
	addSiteFlags(flags, v)
	addValidatorFlags(flags, v)
	addAddressFlag(flags, v)
	addBasePathFlag(flags, v)
	addPollFlag(flags, v)
	addPollIntervalFlag(flags, v)
	addValidationIntervalFlag(flags, v)
	addHistoryDirFlag(flags, v)
	addHistoryLimitFlag(flags, v)
	addStorageTypeFlag(flags, v)
	addStorageBlobBucketFlag(flags, v)
	addStorageBlobPrefixFlag(flags, v)
	addRepositoryTimeoutFlag(flags, v)
	addStrictFlag(flags, v)
	addGracefulPeriodFlag(flags, v)
	addGzipLevelFlag(flags, v)
	addOtelEnabledFlag(flags, v)
	addServiceHealthzEnabledFlag(flags, v)
	addServicePrometheusEnabledFlag(flags, v)
	addServicePProfEnabledFlag(flags, v)
	addSitemapSortFlag(flags, v)
	addSitemapDedupeFlag(flags, v)

	return cmd
}

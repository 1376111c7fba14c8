package cmd

import (
	"github.com/foomo/keel/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/foomo/sitecheck/pkg/repo"
	"github.com/foomo/sitecheck/pkg/seo"
)

const (
	SitemapKey = "sitemap.xml"
	RobotsKey  = "robots.txt"
)

func NewGenerateCommand() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:          "generate <url|file>",
		Short:        "Generate sitemap.xml and robots.txt for a content bundle",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.Logger().Named("generate")

			resolver, err := newResolver(v)
			if err != nil {
				return err
			}

			data, err := repo.Fetch(ctx, newHTTPClient(repositoryTimeoutFlag(v)), args[0])
			if err != nil {
				return err
			}
			s, err := repo.NewSnapshot(data)
			if err != nil {
				return err
			}
			if s.Problems != nil {
				l.Warn("bundle has ingestion problems", zap.Error(s.Problems))
			}

			entries := resolver.SitemapEntries(s.Hierarchy)
			if sitemapDedupeFlag(v) {
				entries = seo.WithoutDuplicates(entries)
			}
			if sitemapSortFlag(v) {
				entries = seo.SortByPriority(entries)
			}
			sitemap, err := seo.SitemapXML(entries)
			if err != nil {
				return errors.Wrap(err, "failed to render sitemap")
			}

			storage, err := repo.NewStorage(ctx, l, outTypeFlag(v), outDirFlag(v), outBucketFlag(v), outPrefixFlag(v))
			if err != nil {
				return errors.Wrap(err, "failed to create output storage")
			}
			defer storage.Close()

			if err := storage.Write(ctx, SitemapKey, sitemap); err != nil {
				return errors.Wrap(err, "failed to write sitemap")
			}
			if err := storage.Write(ctx, RobotsKey, []byte(resolver.RobotsTxt())); err != nil {
				return errors.Wrap(err, "failed to write robots.txt")
			}

			l.Info("generated sitemap",
				zap.Int("entries", len(entries)),
				zap.String("base_url", resolver.BaseURL()),
				zap.String("strategy", string(resolver.Strategy())),
			)
			return nil
		},
	}

	flags := cmd.Flags()
	addSiteFlags(flags, v)
	addRepositoryTimeoutFlag(flags, v)
	addOutTypeFlag(flags, v)
	addOutDirFlag(flags, v)
	addOutBucketFlag(flags, v)
	addOutPrefixFlag(flags, v)
	addSitemapSortFlag(flags, v)
	addSitemapDedupeFlag(flags, v)

	return cmd
}

package cmd

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/foomo/sitecheck/pkg/probe"
	"github.com/foomo/sitecheck/pkg/repo"
	"github.com/foomo/sitecheck/pkg/seo"
)

// ------------------------------------------------------------------------------------------------
// ~ Logging
// ------------------------------------------------------------------------------------------------

func logLevelFlag(v *viper.Viper) string {
	return v.GetString("log.level")
}

func addLogLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-level", "info", "log level")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

func logFormatFlag(v *viper.Viper) string {
	return v.GetString("log.format")
}

func addLogFormatFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-format", "json", "log format")
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindEnv("log.format", "LOG_FORMAT")
}

// ------------------------------------------------------------------------------------------------
// ~ Site
// ------------------------------------------------------------------------------------------------

func baseURLFlag(v *viper.Viper) string {
	return v.GetString("site.base_url")
}

func addBaseURLFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("base-url", seo.DefaultBaseURL, "Public origin of the site")
	_ = v.BindPFlag("site.base_url", flags.Lookup("base-url"))
	_ = v.BindEnv("site.base_url", "SITE_BASE_URL")
}

func pathStrategyFlag(v *viper.Viper) string {
	return v.GetString("site.path_strategy")
}

func addPathStrategyFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("path-strategy", string(seo.StrategyCMSFirst), "Path precedence: cms-first or hierarchy-first")
	_ = v.BindPFlag("site.path_strategy", flags.Lookup("path-strategy"))
	_ = v.BindEnv("site.path_strategy", "SITECHECK_PATH_STRATEGY")
}

// ------------------------------------------------------------------------------------------------
// ~ Validation
// ------------------------------------------------------------------------------------------------

func probeTimeoutFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("probe.timeout")
}

func addProbeTimeoutFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("probe-timeout", probe.DefaultTimeout, "Timeout of a single image or link probe")
	_ = v.BindPFlag("probe.timeout", flags.Lookup("probe-timeout"))
	_ = v.BindEnv("probe.timeout", "SITECHECK_PROBE_TIMEOUT")
}

func probeConcurrencyFlag(v *viper.Viper) int {
	return v.GetInt("probe.concurrency")
}

func addProbeConcurrencyFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("probe-concurrency", probe.DefaultConcurrency, "Maximum number of probes in flight")
	_ = v.BindPFlag("probe.concurrency", flags.Lookup("probe-concurrency"))
	_ = v.BindEnv("probe.concurrency", "SITECHECK_PROBE_CONCURRENCY")
}

func probeRateFlag(v *viper.Viper) float64 {
	return v.GetFloat64("probe.rate")
}

func addProbeRateFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Float64("probe-rate", 0, "Maximum probes per second, 0 is unlimited")
	_ = v.BindPFlag("probe.rate", flags.Lookup("probe-rate"))
	_ = v.BindEnv("probe.rate", "SITECHECK_PROBE_RATE")
}

func validateImagesFlag(v *viper.Viper) bool {
	return v.GetBool("validate.images")
}

func addValidateImagesFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("validate-images", true, "Check that images are reachable")
	_ = v.BindPFlag("validate.images", flags.Lookup("validate-images"))
	_ = v.BindEnv("validate.images", "SITECHECK_VALIDATE_IMAGES")
}

func validateLinksFlag(v *viper.Viper) bool {
	return v.GetBool("validate.links")
}

func addValidateLinksFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("validate-links", true, "Check that external links are reachable")
	_ = v.BindPFlag("validate.links", flags.Lookup("validate-links"))
	_ = v.BindEnv("validate.links", "SITECHECK_VALIDATE_LINKS")
}

func validateContentFlag(v *viper.Viper) bool {
	return v.GetBool("validate.content")
}

func addValidateContentFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("validate-content", true, "Check the structure of navigation content")
	_ = v.BindPFlag("validate.content", flags.Lookup("validate-content"))
	_ = v.BindEnv("validate.content", "SITECHECK_VALIDATE_CONTENT")
}

func outputFlag(v *viper.Viper) string {
	return v.GetString("output")
}

func addOutputFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.StringP("output", "o", "json", "Report format: json or yaml")
	_ = v.BindPFlag("output", flags.Lookup("output"))
}

func failOnWarningsFlag(v *viper.Viper) bool {
	return v.GetBool("fail_on_warnings")
}

func addFailOnWarningsFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("fail-on-warnings", false, "Exit non-zero when the report has warnings")
	_ = v.BindPFlag("fail_on_warnings", flags.Lookup("fail-on-warnings"))
}

func triggerFlag(v *viper.Viper) bool {
	return v.GetBool("trigger")
}

func addTriggerFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("trigger", false, "Trigger a validation run instead of reading the last report")
	_ = v.BindPFlag("trigger", flags.Lookup("trigger"))
}

func updateFlag(v *viper.Viper) bool {
	return v.GetBool("update")
}

func addUpdateFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("update", false, "Let the server reload its bundle before the triggered run")
	_ = v.BindPFlag("update", flags.Lookup("update"))
}

// ------------------------------------------------------------------------------------------------
// ~ Generate
// ------------------------------------------------------------------------------------------------

func outTypeFlag(v *viper.Viper) string {
	return v.GetString("out.type")
}

func addOutTypeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("out-type", repo.StorageTypeFilesystem, "Output storage type: filesystem or blob")
	_ = v.BindPFlag("out.type", flags.Lookup("out-type"))
	_ = v.BindEnv("out.type", "SITECHECK_OUT_TYPE")
}

func outDirFlag(v *viper.Viper) string {
	return v.GetString("out.dir")
}

func addOutDirFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("out-dir", "./public", "Output directory for the filesystem storage")
	_ = v.BindPFlag("out.dir", flags.Lookup("out-dir"))
	_ = v.BindEnv("out.dir", "SITECHECK_OUT_DIR")
}

func outBucketFlag(v *viper.Viper) string {
	return v.GetString("out.bucket")
}

func addOutBucketFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("out-bucket", "", "Output bucket url for the blob storage (gs://, file://)")
	_ = v.BindPFlag("out.bucket", flags.Lookup("out-bucket"))
	_ = v.BindEnv("out.bucket", "SITECHECK_OUT_BUCKET")
}

func outPrefixFlag(v *viper.Viper) string {
	return v.GetString("out.prefix")
}

func addOutPrefixFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("out-prefix", "", "Key prefix within the output bucket")
	_ = v.BindPFlag("out.prefix", flags.Lookup("out-prefix"))
	_ = v.BindEnv("out.prefix", "SITECHECK_OUT_PREFIX")
}

func sitemapSortFlag(v *viper.Viper) bool {
	return v.GetBool("sitemap.sort")
}

func addSitemapSortFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("sitemap-sort", true, "Sort sitemap entries by priority")
	_ = v.BindPFlag("sitemap.sort", flags.Lookup("sitemap-sort"))
}

func sitemapDedupeFlag(v *viper.Viper) bool {
	return v.GetBool("sitemap.dedupe")
}

func addSitemapDedupeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("sitemap-dedupe", true, "Drop sitemap entries with duplicate urls")
	_ = v.BindPFlag("sitemap.dedupe", flags.Lookup("sitemap-dedupe"))
}

// ------------------------------------------------------------------------------------------------
// ~ Serve
// ------------------------------------------------------------------------------------------------

func addressFlag(v *viper.Viper) string {
	return v.GetString("address")
}

func addAddressFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("address", ":8080", "Address to bind to (host:port)")
	_ = v.BindPFlag("address", flags.Lookup("address"))
	_ = v.BindEnv("address", "SITECHECK_ADDRESS")
}

func basePathFlag(v *viper.Viper) string {
	return v.GetString("base_path")
}

func addBasePathFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("base-path", "/sitecheck", "Base path to export the webserver on")
	_ = v.BindPFlag("base_path", flags.Lookup("base-path"))
	_ = v.BindEnv("base_path", "SITECHECK_BASE_PATH")
}

func pollFlag(v *viper.Viper) bool {
	return v.GetBool("poll.enabled")
}

func addPollFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("poll", false, "If true, the bundle source will be fetched periodically")
	_ = v.BindPFlag("poll.enabled", flags.Lookup("poll"))
	_ = v.BindEnv("poll.enabled", "SITECHECK_POLL")
}

func pollIntervalFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("poll.interval")
}

func addPollIntervalFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("poll-interval", time.Minute, "Specifies the poll interval")
	_ = v.BindPFlag("poll.interval", flags.Lookup("poll-interval"))
	_ = v.BindEnv("poll.interval", "SITECHECK_POLL_INTERVAL")
}

func validationIntervalFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("validation.interval")
}

func addValidationIntervalFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("validation-interval", 5*time.Minute, "Specifies the validation interval")
	_ = v.BindPFlag("validation.interval", flags.Lookup("validation-interval"))
	_ = v.BindEnv("validation.interval", "SITECHECK_VALIDATION_INTERVAL")
}

func historyDirFlag(v *viper.Viper) string {
	return v.GetString("history.dir")
}

func addHistoryDirFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("history-dir", "/var/lib/sitecheck", "Where to keep the bundle history")
	_ = v.BindPFlag("history.dir", flags.Lookup("history-dir"))
	_ = v.BindEnv("history.dir", "SITECHECK_HISTORY_DIR")
}

func historyLimitFlag(v *viper.Viper) int {
	return v.GetInt("history.limit")
}

func addHistoryLimitFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("history-limit", 2, "Number of history records to keep")
	_ = v.BindPFlag("history.limit", flags.Lookup("history-limit"))
	_ = v.BindEnv("history.limit", "SITECHECK_HISTORY_LIMIT")
}

func storageTypeFlag(v *viper.Viper) string {
	return v.GetString("storage.type")
}

func addStorageTypeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-type", repo.StorageTypeFilesystem, "History storage type: filesystem or blob")
	_ = v.BindPFlag("storage.type", flags.Lookup("storage-type"))
	_ = v.BindEnv("storage.type", "SITECHECK_STORAGE_TYPE")
}

func storageBlobBucketFlag(v *viper.Viper) string {
	return v.GetString("storage.blob.bucket")
}

func addStorageBlobBucketFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-blob-bucket", "", "History bucket url for the blob storage (gs://, file://)")
	_ = v.BindPFlag("storage.blob.bucket", flags.Lookup("storage-blob-bucket"))
	_ = v.BindEnv("storage.blob.bucket", "SITECHECK_STORAGE_BLOB_BUCKET")
}

func storageBlobPrefixFlag(v *viper.Viper) string {
	return v.GetString("storage.blob.prefix")
}

func addStorageBlobPrefixFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-blob-prefix", "", "Key prefix within the history bucket")
	_ = v.BindPFlag("storage.blob.prefix", flags.Lookup("storage-blob-prefix"))
	_ = v.BindEnv("storage.blob.prefix", "SITECHECK_STORAGE_BLOB_PREFIX")
}

func repositoryTimeoutFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("repository.timeout")
}

func addRepositoryTimeoutFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("repository-timeout", 30*time.Second, "Timeout for fetching the bundle")
	_ = v.BindPFlag("repository.timeout", flags.Lookup("repository-timeout"))
	_ = v.BindEnv("repository.timeout", "SITECHECK_REPOSITORY_TIMEOUT")
}

func strictFlag(v *viper.Viper) bool {
	return v.GetBool("repository.strict")
}

func addStrictFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("strict", false, "Reject bundles that fail the ingestion checks")
	_ = v.BindPFlag("repository.strict", flags.Lookup("strict"))
	_ = v.BindEnv("repository.strict", "SITECHECK_STRICT")
}

func gracefulPeriodFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("graceful_period")
}

func addGracefulPeriodFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("graceful-period", 0, "Graceful period before shutting down services")
	_ = v.BindPFlag("graceful_period", flags.Lookup("graceful-period"))
	_ = v.BindEnv("graceful_period", "SITECHECK_GRACEFUL_PERIOD")
}

func gzipLevelFlag(v *viper.Viper) int {
	return v.GetInt("gzip.level")
}

func addGzipLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("gzip-level", 5, "Compression level of http responses")
	_ = v.BindPFlag("gzip.level", flags.Lookup("gzip-level"))
	_ = v.BindEnv("gzip.level", "SITECHECK_GZIP_LEVEL")
}

func serviceHealthzEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.healthz.enabled")
}

func addServiceHealthzEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-healthz-enabled", false, "Enable healthz service")
	_ = v.BindPFlag("service.healthz.enabled", flags.Lookup("service-healthz-enabled"))
}

func servicePrometheusEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.prometheus.enabled")
}

func addServicePrometheusEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-prometheus-enabled", false, "Enable prometheus service")
	_ = v.BindPFlag("service.prometheus.enabled", flags.Lookup("service-prometheus-enabled"))
}

func servicePProfEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.pprof.enabled")
}

func addServicePProfEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-pprof-enabled", false, "Enable pprof service")
	_ = v.BindPFlag("service.pprof.enabled", flags.Lookup("service-pprof-enabled"))
}

func otelEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("otel.enabled")
}

func addOtelEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("otel-enabled", false, "Enable otel service")
	_ = v.BindPFlag("otel.enabled", flags.Lookup("otel-enabled"))
	_ = v.BindEnv("otel.enabled", "OTEL_ENABLED")
}

package textbook

import "github.com/goliatone/go-textbook/internal/runtimeconfig"

var (
	ErrOutputDirRequired       = runtimeconfig.ErrOutputDirRequired
	ErrWorkersInvalid          = runtimeconfig.ErrWorkersInvalid
	ErrCMSTimeoutInvalid       = runtimeconfig.ErrCMSTimeoutInvalid
	ErrEmbeddingsIncomplete    = runtimeconfig.ErrEmbeddingsIncomplete
	ErrReportLogIncomplete     = runtimeconfig.ErrReportLogIncomplete
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	CMSConfig        = runtimeconfig.CMSConfig
	OutputConfig     = runtimeconfig.OutputConfig
	RenderConfig     = runtimeconfig.RenderConfig
	EmbeddingsConfig = runtimeconfig.EmbeddingsConfig
	ReportLogConfig  = runtimeconfig.ReportLogConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

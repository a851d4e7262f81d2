package config

const (
	defaultTempDir          = "~/.local/share/subweld/tmp"
	defaultLogDir           = "~/.local/share/subweld/logs"
	defaultAPIBase          = "https://api.telegram.org"
	defaultRequestTimeout   = 60
	defaultPollTimeout      = 30
	defaultDownloadTimeout  = 240
	defaultAPIFileCeilingMB = 20
	defaultMaxInputMB       = 200
	defaultMaxOutputMB      = 200
	defaultAcquireRetries   = 2
	defaultBackoffBase      = 1
	defaultWhisperBinary    = "whisper"
	defaultWhisperModel     = "base"
	defaultSourceLanguage   = "en"
	defaultTargetLanguage   = "he"
	defaultTranslateModel   = "gpt-4o-mini"
	defaultTranslateRetries = 3
	defaultRetryDelay       = 1
	defaultProgressInterval = 5
	defaultTranslateTimeout = 30
	defaultFontSize         = 24
	defaultFontColor        = "white"
	defaultBurnTimeout      = 900
	defaultFFmpegBinary     = "ffmpeg"
	defaultLogFormat        = "auto"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TempDir: defaultTempDir,
			LogDir:  defaultLogDir,
		},
		Telegram: Telegram{
			APIBase:          defaultAPIBase,
			RequestTimeout:   defaultRequestTimeout,
			PollTimeout:      defaultPollTimeout,
			DownloadTimeout:  defaultDownloadTimeout,
			APIFileCeilingMB: defaultAPIFileCeilingMB,
		},
		Limits: Limits{
			MaxInputMB:  defaultMaxInputMB,
			MaxOutputMB: defaultMaxOutputMB,
		},
		Acquire: Acquire{
			MaxRetries:  defaultAcquireRetries,
			BackoffBase: defaultBackoffBase,
		},
		Whisper: Whisper{
			Binary:   defaultWhisperBinary,
			Model:    defaultWhisperModel,
			Language: defaultSourceLanguage,
		},
		Translate: Translate{
			Model:            defaultTranslateModel,
			SourceLanguage:   defaultSourceLanguage,
			TargetLanguage:   defaultTargetLanguage,
			MaxRetries:       defaultTranslateRetries,
			RetryDelay:       defaultRetryDelay,
			ProgressInterval: defaultProgressInterval,
			RequestTimeout:   defaultTranslateTimeout,
		},
		Subtitles: Subtitles{
			FontSize:     defaultFontSize,
			FontColor:    defaultFontColor,
			BurnTimeout:  defaultBurnTimeout,
			FFmpegBinary: defaultFFmpegBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package navguard

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/BrandonKowalski/navguard/pkg/navguard/constants"
	"github.com/BrandonKowalski/navguard/pkg/navguard/internal"
	"github.com/BrandonKowalski/navguard/pkg/navguard/locale"
	"github.com/BurntSushi/toml"
)

// Options configures a Guard.
type Options struct {
	Message         string          // Confirmation text; empty uses the localized default
	Locale          string          // Locale for the default text (e.g. "es"); NAVGUARD_LOCALE overrides when empty
	Catalog         *locale.Catalog // Translations; nil loads the embedded catalog when needed
	Policy          Policy          // Asks the user; nil rejects every exit
	OnConfirmedExit func()          // Called once per approved exit
	Unloader        Unloader        // Close notification source, optional
	Async           bool            // Resolve history-change prompts off the notifying goroutine
	ConfirmTimeout  time.Duration   // Prompt deadline; 0 uses the default, negative disables
	Logger          *slog.Logger    // Diagnostics; nil uses the internal logger
}

// Duration is a time.Duration that decodes from strings such as "30s" or "2m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the file form of Options.
//
//	message = ""                    # empty: localized default
//	locale = "es"
//	confirm_timeout = "2m"
//	async = false
//	log_level = "debug"
//	log_path = "logs/navguard.log"
//	message_files = ["i18n/active.pt.toml"]
type Config struct {
	Message        string   `toml:"message"`
	Locale         string   `toml:"locale"`
	ConfirmTimeout Duration `toml:"confirm_timeout"`
	Async          bool     `toml:"async"`
	LogLevel       string   `toml:"log_level"`
	LogPath        string   `toml:"log_path"`
	MessageFiles   []string `toml:"message_files"`

	// Unknown holds keys the file set that Config does not know.
	Unknown []string `toml:"-"`
}

// LoadConfig reads a TOML configuration file. Unknown keys are kept in Config.Unknown
// and reported by ApplyLogging, once the log destination is known.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("navguard: load config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, key.String())
	}
	return cfg, nil
}

// ApplyLogging applies the log path and level process-wide. The log path only takes
// effect before the first guard logs.
func (c Config) ApplyLogging() {
	if c.LogPath != "" {
		internal.SetLogPath(c.LogPath)
	}
	if c.LogLevel != "" {
		internal.SetRawLogLevel(c.LogLevel)
	}
	if len(c.Unknown) > 0 {
		internal.GetInternalLogger().Warn("Unknown config keys", "keys", c.Unknown)
	}
}

// Options converts the configuration to guard options. Message files are loaded into a
// fresh catalog. Logging settings are left to ApplyLogging.
func (c Config) Options() (Options, error) {
	opts := Options{
		Message:        c.Message,
		Locale:         c.Locale,
		Async:          c.Async,
		ConfirmTimeout: c.ConfirmTimeout.Duration,
	}

	if len(c.MessageFiles) > 0 {
		catalog, err := locale.New()
		if err != nil {
			return Options{}, err
		}
		for _, f := range c.MessageFiles {
			if err := catalog.LoadFile(f); err != nil {
				return Options{}, err
			}
		}
		opts.Catalog = catalog
	}

	return opts, nil
}

func (o Options) withDefaults() Options {
	if o.Policy == nil {
		o.Policy = unavailablePolicy{}
	}
	if o.ConfirmTimeout == 0 {
		o.ConfirmTimeout = constants.DefaultConfirmTimeout
	}
	if o.Locale == "" {
		o.Locale = constants.EnvOr(constants.LocaleEnvVar, constants.DefaultLocale)
	}
	if o.Logger == nil {
		o.Logger = internal.GetInternalLogger()
	}
	return o
}

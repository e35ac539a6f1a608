package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"clasificador/internal/errors"
)

// DefaultConfigFile is looked up in the working directory when no file is given.
const DefaultConfigFile = "clasificador.yaml"

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig `koanf:"server"`
	AI     AIConfig     `koanf:"ai"`
	Batch  BatchConfig  `koanf:"batch"`
	Log    LogConfig    `koanf:"log"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port                 string   `koanf:"port" validate:"required"`
	GinMode              string   `koanf:"gin_mode" validate:"omitempty,oneof=debug release test"`
	MaxUploadMB          int64    `koanf:"max_upload_mb" validate:"min=1"`
	MaxConcurrentBatches int64    `koanf:"max_concurrent_batches" validate:"min=1"`
	CORSOrigins          []string `koanf:"cors_origins"`
}

// AIConfig selects and tunes the classification capability.
type AIConfig struct {
	Provider            string        `koanf:"provider" validate:"required,oneof=gemini openai heuristic mock"`
	GeminiKey           string        `koanf:"gemini_key" validate:"required_if=Provider gemini"`
	GeminiModel         string        `koanf:"gemini_model"`
	OpenAIKey           string        `koanf:"openai_key" validate:"required_if=Provider openai"`
	OpenAIModel         string        `koanf:"openai_model"`
	ModelOverride       string        `koanf:"model"`
	BaseURL             string        `koanf:"base_url" validate:"omitempty,url"`
	Temperature         float64       `koanf:"temperature" validate:"min=0,max=2"`
	MaxTokens           int           `koanf:"max_tokens" validate:"min=0"`
	Timeout             time.Duration `koanf:"timeout"`
	FallbackToHeuristic bool          `koanf:"fallback_to_heuristic"`
}

// BatchConfig holds pacing settings for the row pipeline.
type BatchConfig struct {
	Size  int           `koanf:"size" validate:"min=1"`
	Pause time.Duration `koanf:"pause"`
}

// LogConfig holds operational logging settings
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.port":                   "8080",
		"server.gin_mode":               "release",
		"server.max_upload_mb":          32,
		"server.max_concurrent_batches": 1,
		"server.cors_origins":           []string{"*"},
		"ai.provider":                   "gemini",
		"ai.gemini_model":               "gemini-1.5-flash-latest",
		"ai.openai_model":               "gpt-4.1-mini",
		"ai.temperature":                0.0,
		"ai.max_tokens":                 1024,
		"ai.timeout":                    "60s",
		"ai.fallback_to_heuristic":      false,
		"batch.size":                    50,
		"batch.pause":                   "500ms",
		"log.level":                     "INFO",
		"log.format":                    "console",
	}
}

// envKeys maps the environment variables we honor to config keys. Names follow
// the conventions of the deployed service rather than a common prefix.
var envKeys = map[string]string{
	"PORT":                   "server.port",
	"GIN_MODE":               "server.gin_mode",
	"MAX_UPLOAD_MB":          "server.max_upload_mb",
	"MAX_CONCURRENT_BATCHES": "server.max_concurrent_batches",
	"CORS_ORIGINS":           "server.cors_origins",
	"AI_PROVIDER":            "ai.provider",
	"GEMINI_API_KEY":         "ai.gemini_key",
	"GEMINI_MODEL":           "ai.gemini_model",
	"OPENAI_API_KEY":         "ai.openai_key",
	"LLM_MODEL":              "ai.openai_model",
	"OPENAI_BASE_URL":        "ai.base_url",
	"TEMPERATURE":            "ai.temperature",
	"MAX_TOKENS":             "ai.max_tokens",
	"AI_TIMEOUT":             "ai.timeout",
	"AI_FALLBACK_HEURISTIC":  "ai.fallback_to_heuristic",
	"BATCH_SIZE":             "batch.size",
	"BATCH_PAUSE":            "batch.pause",
	"LOG_LEVEL":              "log.level",
	"LOG_FORMAT":             "log.format",
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"port":        "server.port",
	"provider":    "ai.provider",
	"model":       "ai.model",
	"batch-size":  "batch.size",
	"batch-pause": "batch.pause",
	"log-level":   "log.level",
	"log-format":  "log.format",
}

// Options control where Load reads from.
type Options struct {
	// ConfigFile is an explicit YAML file. Empty means DefaultConfigFile if present.
	ConfigFile string
	// EnvFile is loaded into the process environment first. Empty means ".env".
	EnvFile string
	// Flags are applied last; only flags the user changed take effect.
	Flags *pflag.FlagSet
}

// Load reads configuration from defaults, the optional config file, the environment
// and command line flags, in increasing priority, and validates it.
func Load() (*Config, error) {
	return LoadWithOptions(Options{})
}

// LoadWithOptions is Load with explicit sources.
func LoadWithOptions(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// A missing .env is normal in containers.
	_ = godotenv.Load(envFile)

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	cfgFile := opts.ConfigFile
	if cfgFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			cfgFile = DefaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid,
				errors.Wrapf(err, "error reading config file %s", cfgFile))
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if opts.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		}), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrap(err, "unable to decode config"))
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	c.Log.Level = strings.ToUpper(strings.TrimSpace(c.Log.Level))
	if len(c.Server.CORSOrigins) == 1 && strings.Contains(c.Server.CORSOrigins[0], ",") {
		c.Server.CORSOrigins = strings.Split(c.Server.CORSOrigins[0], ",")
	}
	for i, o := range c.Server.CORSOrigins {
		c.Server.CORSOrigins[i] = strings.TrimSpace(o)
	}
}

var validate = validator.New()

// Validate checks the struct tags and reports the first violations as CONFIG_INVALID.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace()+" ("+fe.Tag()+")")
			}
		}
		if len(fields) == 0 {
			return errors.WithCode(errors.CodeConfigInvalid, errors.Wrap(err, "configuration validation failed"))
		}
		return errors.ConfigInvalid("configuration validation failed: " + strings.Join(fields, ", "))
	}
	return nil
}

// Model returns the model configured for the active provider.
func (a AIConfig) Model() string {
	if a.ModelOverride != "" {
		return a.ModelOverride
	}
	if a.Provider == "openai" {
		return a.OpenAIModel
	}
	return a.GeminiModel
}

// APIKey returns the credential for the active provider.
func (a AIConfig) APIKey() string {
	switch a.Provider {
	case "openai":
		return a.OpenAIKey
	case "gemini":
		return a.GeminiKey
	}
	return ""
}

// MaxUploadBytes is the multipart limit in bytes.
func (s ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

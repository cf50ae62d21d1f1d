package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings is the runtime configuration shared by the server and the voice client.
type Settings struct {
	HTTP     HTTPSettings     `mapstructure:"http"`
	Log      LogSettings      `mapstructure:"log"`
	Advisory AdvisorySettings `mapstructure:"advisory"`
	Catalog  CatalogSettings  `mapstructure:"catalog"`
	Client   ClientSettings   `mapstructure:"client"`
	OpenAI   OpenAISettings   `mapstructure:"openai"`
}

type HTTPSettings struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogSettings struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// AdvisorySettings holds the simulated processing delays of the advisory endpoint.
type AdvisorySettings struct {
	ThinkDelay  time.Duration `mapstructure:"think_delay"`
	LookupDelay time.Duration `mapstructure:"lookup_delay"`
}

type CatalogSettings struct {
	Path string `mapstructure:"path"` // Empty selects the built-in catalog
}

type ClientSettings struct {
	ServerURL      string        `mapstructure:"server_url"`
	CaptureTimeout time.Duration `mapstructure:"capture_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Language       string        `mapstructure:"language"`
}

type OpenAISettings struct {
	APIKey   string `mapstructure:"api_key"`
	STTModel string `mapstructure:"stt_model"`
	TTSModel string `mapstructure:"tts_model"`
	Voice    string `mapstructure:"voice"`
}

// LoadEnv loads a .env file into the process environment if one exists.
func LoadEnv() error {
	return godotenv.Load()
}

// LoadSettings reads config/settings.yaml (optional) and KRISHI_* environment variables.
func LoadSettings() (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("settings")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("KRISHI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY", "KRISHI_OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind openai.api_key: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return &s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", true)

	v.SetDefault("advisory.think_delay", time.Second)
	v.SetDefault("advisory.lookup_delay", 500*time.Millisecond)

	v.SetDefault("catalog.path", "")

	v.SetDefault("client.server_url", "http://localhost:8080")
	v.SetDefault("client.capture_timeout", 15*time.Second)
	v.SetDefault("client.request_timeout", 10*time.Second)
	v.SetDefault("client.language", "hi")

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.stt_model", "whisper-1")
	v.SetDefault("openai.tts_model", "tts-1")
	v.SetDefault("openai.voice", "alloy")
}

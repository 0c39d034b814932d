package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	WebhookURL     string        `mapstructure:"WEBHOOK_URL"`
	APIKey         string        `mapstructure:"API_KEY"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	CookieSecure   bool          `mapstructure:"COOKIE_SECURE"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`
	DebugBodyLimit int           `mapstructure:"DEBUG_BODY_LIMIT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("WEBHOOK_URL", "")
	v.SetDefault("API_KEY", "")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("DEBUG_BODY_LIMIT", 500)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

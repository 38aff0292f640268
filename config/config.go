package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int    `mapstructure:"REDIS_CACHE_DB"`
	RedisChatDB      int    `mapstructure:"REDIS_CHAT_DB"`
	RedisTaskQueueDB int    `mapstructure:"REDIS_TASK_QUEUE_DB"`

	// External collaborators.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	StripeKey    string `mapstructure:"STRIPE_KEY"`

	// Museum and pricing.
	MuseumName   string `mapstructure:"MUSEUM_NAME"`
	PriceAdult   int    `mapstructure:"PRICE_ADULT"`
	PriceStudent int    `mapstructure:"PRICE_STUDENT"`
	PriceChild   int    `mapstructure:"PRICE_CHILD"`

	// Phone validation differs between the scripted and assisted flows:
	// one requires exactly MIN_PHONE_DIGITS digits, the other accepts
	// MIN_PHONE_DIGITS or more. Both variants are kept configurable.
	MinPhoneDigits   int  `mapstructure:"MIN_PHONE_DIGITS"`
	ExactPhoneDigits bool `mapstructure:"EXACT_PHONE_DIGITS"`

	// CancelToGreeting selects the cancellation variant: true resets the
	// session straight back to the greeting, false routes through the
	// after_cancellation menu (start new / edit info).
	CancelToGreeting bool `mapstructure:"CANCEL_TO_GREETING"`

	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	TicketsDir        string `mapstructure:"TICKETS_DIR"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_CHAT_DB", 1)
	viper.SetDefault("REDIS_TASK_QUEUE_DB", 2)
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("MUSEUM_NAME", "National Museum of India")
	viper.SetDefault("PRICE_ADULT", 500)
	viper.SetDefault("PRICE_STUDENT", 250)
	viper.SetDefault("PRICE_CHILD", 0)
	viper.SetDefault("MIN_PHONE_DIGITS", 10)
	viper.SetDefault("EXACT_PHONE_DIGITS", true)
	viper.SetDefault("CANCEL_TO_GREETING", false)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("TICKETS_DIR", "tickets")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

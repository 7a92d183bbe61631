package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/miniflavors/checkout/pkg/logger"
	"github.com/spf13/viper"
)

func MustInit() {
	// The .env file is optional; containerized deployments pass real env.
	_ = godotenv.Load("./.env")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/checkout-svc")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		panic("error while reading config file: " + err.Error())
	}
	SetupLogger()
}

func SetupLogger() {
	handler := logger.NewHandler(nil)
	log := slog.New(handler)
	slog.SetDefault(log)
}

// WhatsAppConfig holds the WhatsApp Cloud API credentials and the store's
// own number.
type WhatsAppConfig struct {
	Token         string
	PhoneNumberID string
	StoreTo       string
}

// Configured reports whether every credential is present. A partially
// configured channel counts as absent.
func (c WhatsAppConfig) Configured() bool {
	return c.Token != "" && c.PhoneNumberID != "" && c.StoreTo != ""
}

func WhatsApp() WhatsAppConfig {
	return WhatsAppConfig{
		Token:         os.Getenv("WHATSAPP_TOKEN"),
		PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
		StoreTo:       os.Getenv("WHATSAPP_TO"),
	}
}

// EmailConfig holds the transactional email provider credentials and the
// store's inbox.
type EmailConfig struct {
	APIKey     string
	From       string
	StoreInbox string
}

func (c EmailConfig) Configured() bool {
	return c.APIKey != "" && c.From != "" && c.StoreInbox != ""
}

func Email() EmailConfig {
	return EmailConfig{
		APIKey:     os.Getenv("EMAIL_API_KEY"),
		From:       os.Getenv("EMAIL_FROM"),
		StoreInbox: os.Getenv("EMAIL_STORE_INBOX"),
	}
}

// AdminConfig holds the shared admin credential pair.
type AdminConfig struct {
	User     string
	Password string
}

func (c AdminConfig) Configured() bool {
	return c.User != "" && c.Password != ""
}

func Admin() AdminConfig {
	return AdminConfig{
		User:     os.Getenv("ADMIN_USER"),
		Password: os.Getenv("ADMIN_PASSWORD"),
	}
}

// RequiredEnv reports, per variable, whether it is set. Only presence is
// exposed, never values; the health endpoint serves this map.
func RequiredEnv() map[string]bool {
	keys := []string{
		"WHATSAPP_TOKEN",
		"WHATSAPP_PHONE_NUMBER_ID",
		"WHATSAPP_TO",
		"EMAIL_API_KEY",
		"EMAIL_FROM",
		"EMAIL_STORE_INBOX",
		"CHECKOUT_PG_HOST",
		"CHECKOUT_PG_USER",
		"CHECKOUT_PG_PASSWORD",
		"CHECKOUT_PG_DB",
		"ADMIN_USER",
		"ADMIN_PASSWORD",
	}

	present := make(map[string]bool, len(keys))
	for _, key := range keys {
		present[key] = os.Getenv(key) != ""
	}

	return present
}

package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API         *APIConfig         `mapstructure:"api"`
	Gin         *GinConfig         `mapstructure:"gin"`
	Postgres    *PostgresConfig    `mapstructure:"postgres"`
	Stripe      *StripeConfig      `mapstructure:"stripe"`
	Push        *PushConfig        `mapstructure:"push"`
	ObjectStore *ObjectStoreConfig `mapstructure:"object_store"`
}

type APIConfig struct {
	Environment        string `mapstructure:"environment"`
	Port               string `mapstructure:"port"`
	BaseURL            string `mapstructure:"base_url"`
	JWTSigningKey      string `mapstructure:"jwt_signing_key"`
	AllowedCORSDomains string `mapstructure:"allowed_cors_domains"`
	AdminEmails        string `mapstructure:"admin_emails"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type StripeConfig struct {
	SecretKey      string `mapstructure:"secret_key"`
	PublishableKey string `mapstructure:"publishable_key"`
}

type PushConfig struct {
	VAPIDPublicKey  string `mapstructure:"vapid_public_key"`
	VAPIDPrivateKey string `mapstructure:"vapid_private_key"`
	Subscriber      string `mapstructure:"subscriber"`
}

type ObjectStoreConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	Bucket     string `mapstructure:"bucket"`
	AccessKey  string `mapstructure:"access_key"`
	SigningKey string `mapstructure:"signing_key"`
}

// AdminEmailList splits the configured comma-separated admin e-mails,
// lowercased and trimmed.
func (c *APIConfig) AdminEmailList() []string {
	var emails []string
	for _, e := range strings.Split(c.AdminEmails, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			emails = append(emails, e)
		}
	}
	return emails
}

func Load(configPath string) (*AppConfig, error) {
	viper.SetConfigFile(configPath)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	var conf AppConfig
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		if err := viper.Unmarshal(&conf); err != nil {
			zap.L().Error("failed to reload config", zap.Error(err))
			return
		}
		zap.L().Info("config reloaded", zap.String("file", e.Name))
	})
	viper.WatchConfig()

	return &conf, nil
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr           string        `yaml:"addr"`
	APITimeout     time.Duration `yaml:"timeout"`
	DatabasePath   string        `yaml:"database_path"`
	MigrateOnStart bool          `yaml:"migrate_on_start"`
	Strapi         StrapiConfig  `yaml:"strapi"`
	SMTP           SMTPConfig    `yaml:"smtp"`
	Assets         AssetsConfig  `yaml:"assets"`
	Preview        PreviewConfig `yaml:"preview"`
}

// StrapiConfig points the content gateway at the CMS.
type StrapiConfig struct {
	BaseURL string `yaml:"base_url"`
	// APIKey is checked on first use, not at startup.
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type SMTPConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	From      string `yaml:"from"`
	Recipient string `yaml:"recipient"`
}

// Configured reports whether every field the relay needs is set.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != "" && c.From != "" && c.Recipient != ""
}

type AssetsConfig struct {
	// Source is "fs" or "s3".
	Source     string   `yaml:"source"`
	TechsDir   string   `yaml:"techs_dir"`
	HeroVideos []string `yaml:"hero_videos"`
	S3         S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// PreviewConfig guards access to unpublished projects. An empty JWTSecret leaves preview open.
type PreviewConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	PasswordHash  string        `yaml:"password_hash"`
	TokenDuration time.Duration `yaml:"token_duration"`
}

func (p PreviewConfig) Enabled() bool {
	return p.JWTSecret != ""
}

var defaultHeroVideos = []string{
	"/video/heroAvatar.webm",
	"/video/heroAvatar_2.webm",
	"/video/heroAvatar_3.webm",
	"/video/heroAvatar_4.webm",
	"/video/heroAvatar_5.webm",
	"/video/heroAvatar_6.webm",
}

// LoadConfig builds the configuration from defaults, an optional .env file, the environment and
// finally the YAML file at path (when non-empty).
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	smtpPort, err := getEnvInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	username := os.Getenv("SMTP_USER")
	cfg := &Config{
		Addr:           getEnv("WEBOFF_ADDR", ":8080"),
		APITimeout:     15 * time.Second,
		DatabasePath:   getEnv("DB_PATH", "data/weboff.db"),
		MigrateOnStart: getEnvBool("WEBOFF_MIGRATE_ON_START", true),
		Strapi: StrapiConfig{
			BaseURL: getEnv("STRAPI_API_URL", "http://127.0.0.1:1337"),
			APIKey:  os.Getenv("STRAPI_API_KEY"),
		},
		SMTP: SMTPConfig{
			Host:      os.Getenv("SMTP_HOST"),
			Port:      smtpPort,
			Username:  username,
			Password:  os.Getenv("SMTP_PASS"),
			From:      getEnv("SMTP_FROM", username),
			Recipient: getEnv("CONTACT_RECIPIENT", "request@martis.me"),
		},
		Assets: AssetsConfig{
			Source:     getEnv("ASSETS_SOURCE", "fs"),
			TechsDir:   getEnv("TECHS_DIR", "public/images/techs"),
			HeroVideos: append([]string(nil), defaultHeroVideos...),
			S3: S3Config{
				Endpoint:  os.Getenv("ASSETS_S3_ENDPOINT"),
				Region:    getEnv("ASSETS_S3_REGION", "us-east-1"),
				AccessKey: os.Getenv("ASSETS_S3_ACCESS_KEY"),
				SecretKey: os.Getenv("ASSETS_S3_SECRET_KEY"),
				Bucket:    os.Getenv("ASSETS_S3_BUCKET"),
				Prefix:    getEnv("ASSETS_S3_PREFIX", "images/techs/"),
				UseSSL:    getEnvBool("ASSETS_S3_USE_SSL", true),
			},
		},
		Preview: PreviewConfig{
			JWTSecret:     os.Getenv("PREVIEW_JWT_SECRET"),
			PasswordHash:  os.Getenv("PREVIEW_PASSWORD_HASH"),
			TokenDuration: 1 * time.Hour,
		},
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks the configuration for values the server cannot start with. A missing CMS key
// or an incomplete SMTP relay are not startup errors.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database_path is required"))
	}
	if _, err := url.ParseRequestURI(c.Strapi.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("strapi.base_url: %w", err))
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("smtp.port out of range: %d", c.SMTP.Port))
	}

	switch c.Assets.Source {
	case "", "fs":
		c.Assets.Source = "fs"
	case "s3":
		if c.Assets.S3.Endpoint == "" || c.Assets.S3.Bucket == "" {
			errs = append(errs, errors.New("assets.s3 requires endpoint and bucket"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown assets.source %q", c.Assets.Source))
	}

	if c.Preview.Enabled() && c.Preview.TokenDuration <= 0 {
		c.Preview.TokenDuration = time.Hour
	}

	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

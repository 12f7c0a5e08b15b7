// Package config loads client settings from defaults, an optional YAML
// file, an optional .env file and TFCX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/bodrovis/tfcx/client"
)

const (
	// EnvPrefix marks the environment variables Load reads.
	EnvPrefix = "TFCX_"

	// DefaultHostname is the public Terraform Cloud host.
	DefaultHostname = "app.terraform.io"

	apiPath = "/api/v2/"
)

// Settings is the validated result of Load. Keys use snake_case in YAML and
// TFCX_UPPER_CASE in the environment.
type Settings struct {
	Timeout          time.Duration `koanf:"timeout" validate:"gte=0"`
	MinRetryInterval time.Duration `koanf:"min_retry_interval" validate:"gte=0"`
	MaxRetryInterval time.Duration `koanf:"max_retry_interval" validate:"gte=0"`
	MaxRetries       int           `koanf:"max_retries" validate:"gte=0"`
	Token            string        `koanf:"token"`
	UserAgent        string        `koanf:"user_agent"`
	Hostname         string        `koanf:"hostname" validate:"required,hostname_rfc1123|hostname_port"`
}

// BaseURL is the API root for Hostname, with a trailing slash.
func (s Settings) BaseURL() string {
	return "https://" + s.Hostname + apiPath
}

// Builder turns the settings into a client builder.
func (s Settings) Builder() client.Builder {
	return client.NewBuilder().
		SetTimeout(s.Timeout).
		SetMinRetryInterval(s.MinRetryInterval).
		SetMaxRetryInterval(s.MaxRetryInterval).
		SetMaxRetries(s.MaxRetries).
		SetToken(s.Token).
		SetUserAgent(s.UserAgent)
}

type loader struct {
	file   string
	dotenv string
}

// Option adds an optional source to Load.
type Option func(*loader)

// WithFile reads a YAML file. The file must exist.
func WithFile(path string) Option {
	return func(l *loader) { l.file = path }
}

// WithDotEnv reads TFCX_* keys from a .env file. Real environment
// variables still take precedence. The file must exist.
func WithDotEnv(path string) Option {
	return func(l *loader) { l.dotenv = path }
}

// Load resolves settings and returns the matching client builder.
func Load(opts ...Option) (client.Builder, error) {
	s, err := LoadSettings(opts...)
	if err != nil {
		return client.Builder{}, err
	}
	return s.Builder(), nil
}

// LoadSettings resolves settings with priority, lowest first: defaults,
// YAML file, .env file, environment.
func LoadSettings(opts ...Option) (Settings, error) {
	var l loader
	for _, opt := range opts {
		opt(&l)
	}

	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return Settings{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	if l.file != "" {
		if err := k.Load(file.Provider(l.file), yaml.Parser()); err != nil {
			return Settings{}, fmt.Errorf("failed to load %s: %w", l.file, err)
		}
	}

	if l.dotenv != "" {
		vars, err := godotenv.Read(l.dotenv)
		if err != nil {
			return Settings{}, fmt.Errorf("failed to read %s: %w", l.dotenv, err)
		}
		if err := k.Load(confmap.Provider(dotEnvKeys(vars), "."), nil); err != nil {
			return Settings{}, fmt.Errorf("failed to load %s: %w", l.dotenv, err)
		}
	}

	if err := k.Load(envprovider.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return Settings{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	s.Hostname = strings.TrimSpace(s.Hostname)

	if err := Validate(s); err != nil {
		return Settings{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"timeout":            client.DefaultTimeout.String(),
		"min_retry_interval": client.DefaultMinRetryInterval.String(),
		"max_retry_interval": client.DefaultMaxRetryInterval.String(),
		"max_retries":        client.DefaultMaxRetries,
		"token":              "",
		"user_agent":         "",
		"hostname":           DefaultHostname,
	}
	return k.Load(confmap.Provider(defaults, "."), nil)
}

// envKey maps TFCX_MAX_RETRIES to max_retries. Blank values are skipped so
// an exported but empty variable doesn't clobber a lower source.
func envKey(key, value string) (string, any) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
}

func dotEnvKeys(vars map[string]string) map[string]any {
	out := make(map[string]any, len(vars))
	for key, value := range vars {
		if !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		if k, v := envKey(key, value); k != "" {
			out[k] = v
		}
	}
	return out
}

var validate = validator.New()

// Validate checks that durations and retries are non-negative and that
// Hostname is a host name, optionally with a port.
func Validate(s Settings) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must not be negative (got %v)", fe.Field(), fe.Value())
	case "hostname_rfc1123|hostname_port":
		return fmt.Sprintf("%s %q is not a valid host name", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

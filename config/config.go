// Package config loads service configuration from YAML with environment
// variable overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"pepre/internal/errors"
)

// Store driver names accepted by Store.Driver.
const (
	StoreDriverMemory    = "memory"
	StoreDriverFirestore = "firestore"
)

// Initial-password policy modes accepted by InitialPassword.Mode.
const (
	PasswordModeFixed     = "fixed"
	PasswordModeGenerated = "generated"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port int `json:"port" yaml:"port" validate:"required,min=1,max=65535"`
	} `json:"http" yaml:"http"`

	Store StoreConfig `json:"store" yaml:"store"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	// InitialPassword configures credential assignment for entity types
	// that do not accept a caller-chosen password (the employee registry).
	InitialPassword *InitialPasswordConfig `json:"initialPassword" yaml:"initialPassword"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// StoreConfig selects and configures the document-store driver.
type StoreConfig struct {
	Driver    string           `json:"driver" yaml:"driver" validate:"omitempty,oneof=memory firestore"`
	Firestore *FirestoreConfig `json:"firestore" yaml:"firestore"`
}

// FirestoreConfig holds the Firestore connection settings.
type FirestoreConfig struct {
	ProjectID       string `json:"projectId" yaml:"projectId"`
	CredentialsPath string `json:"credentialsPath" yaml:"credentialsPath"`
}

// AuthConfig defines authentication-related configuration.
type AuthConfig struct {
	BcryptCost int `json:"bcryptCost" yaml:"bcryptCost" validate:"omitempty,min=4,max=31"`
}

// InitialPasswordConfig defines the initial-password policy.
//
// The legacy registry shipped a random-password generator but assigned the
// fixed value "admin" everywhere; which one was intended is ambiguous, so
// both are kept behind this switch with "fixed" as the compatible default.
type InitialPasswordConfig struct {
	Mode       string `json:"mode" yaml:"mode" validate:"omitempty,oneof=fixed generated"`
	FixedValue string `json:"fixedValue" yaml:"fixedValue"`
	Length     int    `json:"length" yaml:"length" validate:"omitempty,min=4,max=64"`
}

const defaultFixedPassword = "admin"

// Mode/value accessors with compatible defaults.

func (c *InitialPasswordConfig) EffectiveMode() string {
	if c == nil || c.Mode == "" {
		return PasswordModeFixed
	}

	return c.Mode
}

func (c *InitialPasswordConfig) EffectiveFixedValue() string {
	if c == nil || c.FixedValue == "" {
		return defaultFixedPassword
	}

	return c.FixedValue
}

// Load reads <name>.yaml from the search paths (working directory, ./config,
// ../config), applies environment overrides, validates and returns the
// config. Environment keys use underscores for nesting: HTTP_PORT,
// STORE_DRIVER, STORE_FIRESTORE_PROJECTID.
func Load(name string) (*Config, error) {
	koanfInstance := koanf.New(".")

	configFile, err := findConfigFile(name)
	if err != nil {
		return nil, err
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", name)
	}

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			return strings.ReplaceAll(strings.ToLower(k), "_", "."), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	cfg := new(Config)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides.
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", name)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrapf(err, "invalid %s config", name)
	}

	return cfg, nil
}

func findConfigFile(name string) (string, error) {
	searchPaths := []string{".", "config"}
	if pwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(pwd, "..", "config"))
	}

	for _, path := range searchPaths {
		candidate := filepath.Join(path, name+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", errors.Errorf("config file %s.yaml not found in any search path", name)
}

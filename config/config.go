// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/aurora-stream/aurora/constant"
	"github.com/aurora-stream/aurora/filesystem"
	"github.com/aurora-stream/aurora/key"
	"github.com/aurora-stream/aurora/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
func Setup() error {
	viper.SetConfigName(constant.Aurora)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Aurora)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	return nil
}

// Seconds reads an integer key holding a number of seconds.
// Non-positive values fall back to the registered default.
func Seconds(k string) time.Duration {
	n := viper.GetInt(k)
	if n <= 0 {
		if field, ok := Default[k]; ok {
			n, _ = field.Value.(int)
		}
	}
	return time.Duration(n) * time.Second
}

// URL joins the configured API base URL with the path stored under k.
func URL(k string) string {
	base := strings.TrimRight(viper.GetString(key.APIBaseURL), "/")
	return base + "/" + strings.TrimLeft(viper.GetString(k), "/")
}

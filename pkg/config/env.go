package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// InitEnv lets viper resolve every key from the process environment, so "learner.sync-interval"
// reads LEARNER_SYNC_INTERVAL. Calling it again is harmless.
func InitEnv() {
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()
}

// EnvName is the environment variable a config key is bound to
func EnvName(key string) string {
	return strings.ToUpper(envKeyReplacer.Replace(key))
}

// BindEnvs binds each key to EnvName(key). Keys bound this way are picked up by viper.Unmarshal
// even when no default is set for them.
func BindEnvs(keys ...string) error {
	var errs []error
	for _, key := range keys {
		if err := viper.BindEnv(key, EnvName(key)); err != nil {
			errs = append(errs, fmt.Errorf("binding %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

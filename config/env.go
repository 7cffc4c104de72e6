package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Env is the process configuration read from environment variables.
type Env struct {
	// Config is the path to the YAML preferences configuration file.
	Config string `envconfig:"CONFIG" default:"preferences.yaml"`

	// DSN is the data source name of the database that stores records.
	DSN string `envconfig:"DSN"`

	// Driver is the name of the SQL driver used to open DSN.
	Driver string `envconfig:"DRIVER" default:"pgx"`

	// Namespace, if non-empty, is prepended to the name of each column so
	// that several applications can share one database.
	Namespace string `envconfig:"NAMESPACE"`
}

// EnvPrefix is the prefix of the environment variables read by [LoadEnv].
const EnvPrefix = "PREFCTL"

// LoadEnv reads the process configuration from the environment.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Env{}, fmt.Errorf("cannot load environment configuration: %w", err)
	}
	return env, nil
}

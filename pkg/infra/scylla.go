package infra

import (
	"errors"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	contactPointsSuffix  = "_CONTACT_POINTS"
	portSuffix           = "_PORT"
	keyspaceSuffix       = "_KEYSPACE"
	timeoutSuffix        = "_TIMEOUT_IN_MS"
	connectTimeoutSuffix = "_CONNECT_TIMEOUT_IN_MS"
	numConnsSuffix       = "_NUM_CONNS"
	pageSizeSuffix       = "_PAGE_SIZE"
	usernameSuffix       = "_USERNAME"
	passwordSuffix       = "_PASSWORD"
)

// BuildClusterConfigFromEnv builds a scylla cluster config from environment variables
// named env prefix + option suffix. Durations are read in milliseconds.
//
// Mandatory environment variables:
//   - <envPrefix>_CONTACT_POINTS
//   - <envPrefix>_PORT
//   - <envPrefix>_KEYSPACE
//
// Optional environment variables:
//   - <envPrefix>_TIMEOUT_IN_MS
//   - <envPrefix>_CONNECT_TIMEOUT_IN_MS
//   - <envPrefix>_NUM_CONNS
//   - <envPrefix>_PAGE_SIZE
//   - <envPrefix>_USERNAME and <envPrefix>_PASSWORD
func BuildClusterConfigFromEnv(envPrefix string) (*gocql.ClusterConfig, error) {
	log.Debug().Msgf("building scylla cluster config from env, env prefix - %s", envPrefix)
	if !viper.IsSet(envPrefix + contactPointsSuffix) {
		return nil, errors.New(envPrefix + contactPointsSuffix + " not set")
	}
	hosts := strings.Split(viper.GetString(envPrefix+contactPointsSuffix), ",")
	for i := range hosts {
		hosts[i] = strings.TrimSpace(hosts[i])
	}
	cfg := gocql.NewCluster(hosts...)

	if !viper.IsSet(envPrefix + portSuffix) {
		return nil, errors.New(envPrefix + portSuffix + " not set")
	}
	cfg.Port = viper.GetInt(envPrefix + portSuffix)

	if !viper.IsSet(envPrefix + keyspaceSuffix) {
		return nil, errors.New(envPrefix + keyspaceSuffix + " not set")
	}
	cfg.Keyspace = viper.GetString(envPrefix + keyspaceSuffix)

	if viper.IsSet(envPrefix + timeoutSuffix) {
		cfg.Timeout = time.Duration(viper.GetInt(envPrefix+timeoutSuffix)) * time.Millisecond
	}
	if viper.IsSet(envPrefix + connectTimeoutSuffix) {
		cfg.ConnectTimeout = time.Duration(viper.GetInt(envPrefix+connectTimeoutSuffix)) * time.Millisecond
	}
	if viper.IsSet(envPrefix + numConnsSuffix) {
		cfg.NumConns = viper.GetInt(envPrefix + numConnsSuffix)
	}
	if viper.IsSet(envPrefix + pageSizeSuffix) {
		cfg.PageSize = viper.GetInt(envPrefix + pageSizeSuffix)
	}
	if viper.IsSet(envPrefix+usernameSuffix) && viper.IsSet(envPrefix+passwordSuffix) {
		cfg.Authenticator = gocql.PasswordAuthenticator{
			Username: viper.GetString(envPrefix + usernameSuffix),
			Password: viper.GetString(envPrefix + passwordSuffix),
		}
	}
	return cfg, nil
}

// NewScyllaSession builds the cluster for envPrefix and opens a session on it
func NewScyllaSession(envPrefix string) (*gocql.Session, error) {
	cluster, err := BuildClusterConfigFromEnv(envPrefix)
	if err != nil {
		return nil, err
	}
	return cluster.CreateSession()
}

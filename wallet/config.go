package wallet

import (
	"fmt"

	"github.com/spf13/viper"
)

// The environment keys the bootstrap helper requires. All five must be
// present, the helper fails on the first missing one.
const (
	EnvNodeURL                = "NODE_URL"
	EnvStrongholdPassword     = "STRONGHOLD_PASSWORD"
	EnvStrongholdSnapshotPath = "STRONGHOLD_SNAPSHOT_PATH"
	EnvMnemonic               = "MNEMONIC"
	EnvWalletDBPath           = "WALLET_DB_PATH"
)

var requiredEnvKeys = []string{
	EnvNodeURL,
	EnvStrongholdPassword,
	EnvStrongholdSnapshotPath,
	EnvMnemonic,
	EnvWalletDBPath,
}

type (
	// Config is the transient configuration record consumed by the
	// client constructor. Ownership of the secrets it carries passes
	// to the constructed client.
	Config struct {
		NodeURL                string
		StrongholdPassword     string
		StrongholdSnapshotPath string
		Mnemonic               string
		// StoragePath is the local wallet database directory, its
		// on-disk layout is owned by the storage layer.
		StoragePath string
	}

	// ConfigError signals a missing required configuration key. It is
	// fatal, the bootstrap performs no retries and no fallbacks.
	ConfigError struct {
		Key string
	}
)

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration key %s", e.Key)
}

/*
ConfigFromEnv reads the wallet configuration from the process
environment in a single validation pass. Each required key is checked
in order and the first absent one fails the whole bootstrap with a
ConfigError naming it - no partial configuration is ever returned.

Presence is all that is validated here: the mnemonic checksum, the
node URL shape etc are checked by the components consuming the values.
*/
func ConfigFromEnv() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	return configFrom(v)
}

func configFrom(v *viper.Viper) (*Config, error) {
	for _, key := range requiredEnvKeys {
		if v.GetString(key) == "" {
			return nil, &ConfigError{Key: key}
		}
	}
	return &Config{
		NodeURL:                v.GetString(EnvNodeURL),
		StrongholdPassword:     v.GetString(EnvStrongholdPassword),
		StrongholdSnapshotPath: v.GetString(EnvStrongholdSnapshotPath),
		Mnemonic:               v.GetString(EnvMnemonic),
		StoragePath:            v.GetString(EnvWalletDBPath),
	}, nil
}

func (c *Config) IsValid() error {
	if c == nil {
		return fmt.Errorf("configuration is nil")
	}
	for _, kv := range []struct{ key, val string }{
		{EnvNodeURL, c.NodeURL},
		{EnvStrongholdPassword, c.StrongholdPassword},
		{EnvStrongholdSnapshotPath, c.StrongholdSnapshotPath},
		{EnvMnemonic, c.Mnemonic},
		{EnvWalletDBPath, c.StoragePath},
	} {
		if kv.val == "" {
			return &ConfigError{Key: kv.key}
		}
	}
	return nil
}

// Package config loads server configuration from a JSON file via viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SetDefaults installs default values for every known key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("sim.tickSeconds", 0.05)
	viper.SetDefault("sim.savefile", "OCESS")

	viper.SetDefault("saves.backend", "memory")
	viper.SetDefault("saves.outputDir", "./saves")
	viper.SetDefault("saves.compressOutput", false)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "orbitx")
	viper.SetDefault("db.sqlitePath", "./orbitx.db")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "orbitx-telemetry")
	viper.SetDefault("influx.bucket", "flight_data")
}

// Load reads configuration from a JSON file in configDir, after installing
// defaults for every key.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName("orbitx.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// Memory returns the snapshot-file storage settings.
func Memory() MemoryConfig {
	return MemoryConfig{
		OutputDir:      viper.GetString("saves.outputDir"),
		CompressOutput: viper.GetBool("saves.compressOutput"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

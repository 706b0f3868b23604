package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/kaffeekasse/internal/flagx"
	"github.com/dmitrijs2005/kaffeekasse/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Interval fields use timex.Duration, which accepts both string values
// such as "24h" and integer nanoseconds; money fields are decimal strings.
// After unmarshalling, set fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	CoffeePrice                  string         `json:"coffee_price"`
	FoamSystemReward             string         `json:"foam_system_reward"`
	FoamSystemInterval           timex.Duration `json:"foam_system_interval"`
	DeepCleaningReward           string         `json:"deep_cleaning_reward"`
	DeepCleaningInterval         timex.Duration `json:"deep_cleaning_interval"`
	KafkaBrokers                 string         `json:"kafka_brokers"`
	KafkaTopic                   string         `json:"kafka_topic"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. Missing keys leave the
// corresponding defaults untouched. If the file cannot be read or contains
// invalid JSON or decimals, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityDuration.Duration)
	}
	if c.CoffeePrice != "" {
		config.CoffeePrice = mustDecimal(c.CoffeePrice)
	}
	if c.FoamSystemReward != "" {
		config.FoamSystemReward = mustDecimal(c.FoamSystemReward)
	}
	if c.FoamSystemInterval.Duration != 0 {
		config.FoamSystemInterval = time.Duration(c.FoamSystemInterval.Duration)
	}
	if c.DeepCleaningReward != "" {
		config.DeepCleaningReward = mustDecimal(c.DeepCleaningReward)
	}
	if c.DeepCleaningInterval.Duration != 0 {
		config.DeepCleaningInterval = time.Duration(c.DeepCleaningInterval.Duration)
	}
	if c.KafkaBrokers != "" {
		config.KafkaBrokers = c.KafkaBrokers
	}
	if c.KafkaTopic != "" {
		config.KafkaTopic = c.KafkaTopic
	}
}

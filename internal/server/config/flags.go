package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/kaffeekasse/internal/flagx"
	"github.com/shopspring/decimal"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-p string   coffee price (decimal, e.g. "1.50")
//	-f string   foam system reward (decimal)
//	-i int      foam system cooldown, seconds
//	-w string   deep cleaning reward (decimal)
//	-j int      deep cleaning cooldown, seconds
//	-k string   Kafka brokers, comma-separated (empty disables events)
//	-o string   Kafka topic for transaction events
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Cooldowns are
// accepted as integer seconds to match the original bookkeeping config.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-r", "-p", "-f", "-i", "-w", "-j", "-k", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	coffeePrice := fs.String("p", config.CoffeePrice.String(), "price per coffee")
	foamSystemReward := fs.String("f", config.FoamSystemReward.String(), "foam system reward")
	foamSystemInterval := fs.Int("i", int(config.FoamSystemInterval.Seconds()), "foam_system_interval (in seconds)")
	deepCleaningReward := fs.String("w", config.DeepCleaningReward.String(), "deep cleaning reward")
	deepCleaningInterval := fs.Int("j", int(config.DeepCleaningInterval.Seconds()), "deep_cleaning_interval (in seconds)")

	fs.StringVar(&config.KafkaBrokers, "k", config.KafkaBrokers, "Kafka brokers (comma-separated)")
	fs.StringVar(&config.KafkaTopic, "o", config.KafkaTopic, "Kafka topic for transaction events")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
	config.CoffeePrice = mustDecimal(*coffeePrice)
	config.FoamSystemReward = mustDecimal(*foamSystemReward)
	config.FoamSystemInterval = time.Duration(*foamSystemInterval) * time.Second
	config.DeepCleaningReward = mustDecimal(*deepCleaningReward)
	config.DeepCleaningInterval = time.Duration(*deepCleaningInterval) * time.Second
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

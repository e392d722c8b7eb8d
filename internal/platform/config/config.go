package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	EnableDBCheck      bool
	JWTSecret          string
	CORSAllowedOrigins []string
	RateLimit          string // ulule/limiter format, e.g. "30-M"

	// Settlement lock. An empty RedisAddr selects the in-process lock.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Event stream and peg feed. Empty KafkaBrokers disables both.
	KafkaBrokers     []string
	KafkaEventsTopic string
	KafkaPegTopic    string
	KafkaGroupID     string

	Auction       AuctionConfig
	Stabilization StabilizationConfig
	Settlement    SettlementConfig
}

// AuctionConfig holds auction defaults and bidding rules.
type AuctionConfig struct {
	IssuerAccountID     string
	DefaultBidCurrency  string
	DefaultReservePrice decimal.Decimal
	MinBidIncrement     decimal.Decimal
	BidExtension        time.Duration // zero disables end-time extension
	DefaultDuration     time.Duration
}

// StabilizationConfig holds the issuance policy parameters.
type StabilizationConfig struct {
	StableCurrency   string
	ReserveCurrency  string
	PegThreshold     decimal.Decimal
	Cooldown         time.Duration
	MaxAuctionAmount decimal.Decimal // zero means uncapped
	AmountPrecision  int32
}

// SettlementConfig holds settlement retry and scheduling parameters.
type SettlementConfig struct {
	RetryAttempts         uint
	RetryDelay            time.Duration
	MaxSettlementAttempts int
	LockTTL               time.Duration
	BlockInterval         time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "30-M")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_EVENTS_TOPIC", "auction-events")
	viper.SetDefault("KAFKA_PEG_TOPIC", "peg-prices")
	viper.SetDefault("KAFKA_GROUP_ID", "sett-auction")
	viper.SetDefault("ISSUER_ACCOUNT_ID", "treasury")
	viper.SetDefault("STABLE_CURRENCY", "SETT")
	viper.SetDefault("RESERVE_CURRENCY", "DNAR")
	viper.SetDefault("DEFAULT_BID_CURRENCY", "DNAR")
	viper.SetDefault("DEFAULT_RESERVE_PRICE", "0")
	viper.SetDefault("MIN_BID_INCREMENT", "0")
	viper.SetDefault("BID_EXTENSION", "0s")
	viper.SetDefault("AUCTION_DURATION", "10m")
	viper.SetDefault("PEG_THRESHOLD", "0.01")
	viper.SetDefault("COOLDOWN", "30m")
	viper.SetDefault("MAX_AUCTION_AMOUNT", "0")
	viper.SetDefault("AMOUNT_PRECISION", 8)
	viper.SetDefault("SETTLEMENT_RETRY_ATTEMPTS", 3)
	viper.SetDefault("SETTLEMENT_RETRY_DELAY", "200ms")
	viper.SetDefault("MAX_SETTLEMENT_ATTEMPTS", 5)
	viper.SetDefault("SETTLEMENT_LOCK_TTL", "30s")
	viper.SetDefault("BLOCK_INTERVAL", "5s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Using in-memory storage.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")

	cfg.KafkaBrokers = splitList(viper.GetString("KAFKA_BROKERS"))
	cfg.KafkaEventsTopic = viper.GetString("KAFKA_EVENTS_TOPIC")
	cfg.KafkaPegTopic = viper.GetString("KAFKA_PEG_TOPIC")
	cfg.KafkaGroupID = viper.GetString("KAFKA_GROUP_ID")

	cfg.Auction = AuctionConfig{
		IssuerAccountID:     viper.GetString("ISSUER_ACCOUNT_ID"),
		DefaultBidCurrency:  viper.GetString("DEFAULT_BID_CURRENCY"),
		DefaultReservePrice: getDecimal("DEFAULT_RESERVE_PRICE", decimal.Zero),
		MinBidIncrement:     getDecimal("MIN_BID_INCREMENT", decimal.Zero),
		BidExtension:        getDuration("BID_EXTENSION", 0),
		DefaultDuration:     getDuration("AUCTION_DURATION", 10*time.Minute),
	}

	cfg.Stabilization = StabilizationConfig{
		StableCurrency:   viper.GetString("STABLE_CURRENCY"),
		ReserveCurrency:  viper.GetString("RESERVE_CURRENCY"),
		PegThreshold:     getDecimal("PEG_THRESHOLD", decimal.RequireFromString("0.01")),
		Cooldown:         getDuration("COOLDOWN", 30*time.Minute),
		MaxAuctionAmount: getDecimal("MAX_AUCTION_AMOUNT", decimal.Zero),
		AmountPrecision:  viper.GetInt32("AMOUNT_PRECISION"),
	}

	retryAttempts := viper.GetUint("SETTLEMENT_RETRY_ATTEMPTS")
	if retryAttempts == 0 {
		// retry-go treats zero attempts as "retry forever"
		log.Println("Warning: SETTLEMENT_RETRY_ATTEMPTS must be at least 1. Defaulting to 1.")
		retryAttempts = 1
	}
	maxAttempts := viper.GetInt("MAX_SETTLEMENT_ATTEMPTS")
	if maxAttempts < 1 {
		log.Println("Warning: MAX_SETTLEMENT_ATTEMPTS must be at least 1. Defaulting to 1.")
		maxAttempts = 1
	}
	cfg.Settlement = SettlementConfig{
		RetryAttempts:         retryAttempts,
		RetryDelay:            getDuration("SETTLEMENT_RETRY_DELAY", 200*time.Millisecond),
		MaxSettlementAttempts: maxAttempts,
		LockTTL:               getDuration("SETTLEMENT_LOCK_TTL", 30*time.Second),
		BlockInterval:         getDuration("BLOCK_INTERVAL", 5*time.Second),
	}

	return cfg, nil
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		return fallback
	}
	return d
}

func getDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	raw := viper.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

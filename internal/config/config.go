package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"regtest-transfer/internal/models"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// The defaults reproduce the fixed regtest setup; every field can be
// overridden through the environment or a .env file.
type Config struct {
	LogLevel   string
	Network    models.Network
	OutputPath string
	RPC        RPCConfig
	Wallets    WalletConfig
	Mining     MiningConfig
	Kafka      KafkaConfig
	Database   DatabaseConfig
	History    HistoryConfig
}

// RPCConfig holds the node connection settings
type RPCConfig struct {
	Endpoint  string
	User      string
	Password  string
	RateLimit float64
	Timeout   time.Duration

	// WaitTimeout bounds how long to wait for a starting node. Zero disables waiting.
	WaitTimeout time.Duration
}

// WalletConfig names the two wallets and the payment amount
type WalletConfig struct {
	Miner        string
	Trader       string
	MinerLabel   string
	TraderLabel  string
	SendAmount   models.Amount
	rawSendValue string
}

// MiningConfig controls block generation
type MiningConfig struct {
	ConfirmBlocks     int
	MaxMaturityBlocks int
}

// KafkaConfig holds Kafka configuration. An empty broker address disables the sink.
type KafkaConfig struct {
	BrokerAddress string
	Topic         string
	BatchTimeout  time.Duration
}

// DatabaseConfig holds database configuration. An empty host disables the sink.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (k KafkaConfig) Enabled() bool {
	return k.BrokerAddress != ""
}

func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// HistoryConfig locates the local report history file. An empty path disables it.
type HistoryConfig struct {
	Path string
}

func (h HistoryConfig) Enabled() bool {
	return h.Path != ""
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// A missing .env is fine; the defaults need none.
	_ = godotenv.Load()

	config := &Config{
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		Network:    models.Network(getEnv("NETWORK", string(models.Regtest))),
		OutputPath: getEnv("OUTPUT_PATH", "out.txt"),
		RPC: RPCConfig{
			Endpoint:  getEnv("RPC_URL", "http://127.0.0.1:18443"),
			User:      getEnv("RPC_USER", "alice"),
			Password:  getEnv("RPC_PASSWORD", "password"),
			RateLimit: getEnvAsFloat("RPC_RATE_LIMIT", 0),
			Timeout:   getEnvAsDuration("HTTP_TIMEOUT", 0),

			WaitTimeout: getEnvAsDuration("NODE_WAIT_TIMEOUT", 0),
		},
		Wallets: WalletConfig{
			Miner:        getEnv("MINER_WALLET", "Miner"),
			Trader:       getEnv("TRADER_WALLET", "Trader"),
			MinerLabel:   getEnv("MINER_LABEL", "Mining Reward"),
			TraderLabel:  getEnv("TRADER_LABEL", "Received"),
			rawSendValue: getEnv("SEND_AMOUNT", "20"),
		},
		Mining: MiningConfig{
			ConfirmBlocks:     getEnvAsInt("CONFIRM_BLOCKS", 1),
			MaxMaturityBlocks: getEnvAsInt("MAX_MATURITY_BLOCKS", 1000),
		},
		Kafka: KafkaConfig{
			BrokerAddress: getEnv("KAFKA_BROKER_ADDRESS", ""),
			Topic:         getEnv("KAFKA_TOPIC", "regtest-transfer-reports"),
			BatchTimeout:  getEnvAsDuration("KAFKA_BATCH_TIMEOUT", 10*time.Millisecond),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "regtest_transfer"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		History: HistoryConfig{
			Path: getEnv("HISTORY_PATH", ""),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the values that cannot be defaulted silently and
// resolves SendAmount from its textual form.
func (c *Config) Validate() error {
	if _, err := c.Network.Params(); err != nil {
		return err
	}

	if c.Wallets.rawSendValue != "" {
		amount, err := models.ParseAmount(c.Wallets.rawSendValue)
		if err != nil {
			return fmt.Errorf("SEND_AMOUNT: %w", err)
		}
		c.Wallets.SendAmount = amount
	}
	if c.Wallets.SendAmount <= 0 {
		return fmt.Errorf("SEND_AMOUNT must be positive, got %s", c.Wallets.SendAmount)
	}

	if c.Wallets.Miner == "" || c.Wallets.Trader == "" {
		return fmt.Errorf("wallet names must not be empty")
	}
	if c.Wallets.Miner == c.Wallets.Trader {
		return fmt.Errorf("miner and trader wallets must differ, both are %q", c.Wallets.Miner)
	}

	if c.Mining.ConfirmBlocks < 1 {
		return fmt.Errorf("CONFIRM_BLOCKS must be at least 1, got %d", c.Mining.ConfirmBlocks)
	}
	if c.Mining.MaxMaturityBlocks < 0 {
		return fmt.Errorf("MAX_MATURITY_BLOCKS must not be negative, got %d", c.Mining.MaxMaturityBlocks)
	}

	if c.OutputPath == "" {
		return fmt.Errorf("OUTPUT_PATH must not be empty")
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat gets an environment variable as float64 or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts either a Go duration ("45s") or whole seconds ("45").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

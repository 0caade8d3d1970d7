package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Data source modes for the market price feed.
const (
	SourceDemo = "demo"
	SourceLive = "live"
)

// Config is the service configuration. Values come from, in increasing
// precedence: built-in defaults, an optional YAML file, then environment
// variables (a .env file is honored when present).
type Config struct {
	Port string `yaml:"port"`

	// DataSource selects the market price feed: "demo" reads the bundled
	// xlsx tables, "live" fetches from the pricing API. Any other value
	// degrades to constant fallback prices.
	DataSource string `yaml:"data_source"`

	// DataDir holds AuctionData.xlsx and the demo market workbooks.
	DataDir string `yaml:"data_dir"`
	// ModelDir holds the trained model artifacts.
	ModelDir string `yaml:"model_dir"`

	// DBURL, when set, switches the historical store from xlsx to MySQL.
	DBURL string `yaml:"db_url"`

	MarketAPIURL string `yaml:"market_api_url"`
	MarketAPIKey string `yaml:"market_api_key"`
	BaseCurrency string `yaml:"base_currency"`
	CopperSymbol string `yaml:"copper_symbol"`
	ZincSymbol   string `yaml:"zinc_symbol"`

	FallbackCopperPrice float64 `yaml:"fallback_copper_price"`
	FallbackZincPrice   float64 `yaml:"fallback_zinc_price"`

	// HistoricalLookbackYears bounds the auction history considered.
	HistoricalLookbackYears int `yaml:"historical_lookback_years"`
	// MarketLookbackDays bounds the live metal price window.
	MarketLookbackDays int `yaml:"market_lookback_days"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:                    "8080",
		DataSource:              SourceDemo,
		DataDir:                 "./data",
		ModelDir:                "./models",
		BaseCurrency:            "INR",
		CopperSymbol:            "XCU",
		ZincSymbol:              "ZNC",
		FallbackCopperPrice:     800000,
		FallbackZincPrice:       300000,
		HistoricalLookbackYears: 3,
		MarketLookbackDays:      30,
	}
}

// Load builds the configuration. path may be empty (no YAML file).
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	// .env is optional; absence is not an error.
	_ = godotenv.Load()
	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.DataSource = getEnv("DATA_SOURCE", c.DataSource)
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.ModelDir = getEnv("MODEL_DIR", c.ModelDir)
	c.DBURL = getEnv("DB_URL", c.DBURL)
	c.MarketAPIURL = getEnv("MARKET_API_URL", c.MarketAPIURL)
	c.MarketAPIKey = getEnv("MARKET_API_KEY", c.MarketAPIKey)
	c.BaseCurrency = getEnv("BASE_CURRENCY", c.BaseCurrency)
	c.CopperSymbol = getEnv("COPPER_SYMBOL", c.CopperSymbol)
	c.ZincSymbol = getEnv("ZINC_SYMBOL", c.ZincSymbol)
	c.FallbackCopperPrice = getEnvFloat("FALLBACK_COPPER_PRICE", c.FallbackCopperPrice)
	c.FallbackZincPrice = getEnvFloat("FALLBACK_ZINC_PRICE", c.FallbackZincPrice)
	c.HistoricalLookbackYears = getEnvInt("HISTORICAL_LOOKBACK_YEARS", c.HistoricalLookbackYears)
	c.MarketLookbackDays = getEnvInt("MARKET_LOOKBACK_DAYS", c.MarketLookbackDays)
}

func (c *Config) Validate() error {
	if c.HistoricalLookbackYears <= 0 {
		return errors.New("historical_lookback_years must be positive")
	}
	if c.MarketLookbackDays <= 0 {
		return errors.New("market_lookback_days must be positive")
	}
	if c.DataSource == SourceLive && c.MarketAPIURL == "" {
		return errors.New("market_api_url is required when data_source is live")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

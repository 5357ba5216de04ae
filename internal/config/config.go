package config

import (
	"flag"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env           string            `yaml:"env" env-default:"local"`
	ServerCfg     ServerConfig      `yaml:"server"`
	PostgresCfg   PostgresConfig    `yaml:"postgres"`
	RedisCfg      RedisConfig       `yaml:"redis"`
	NatsCfg       NatsConfig        `yaml:"nats"`
	BinanceConfig BinanceConfig     `yaml:"binance_http_client"`
	ContractCfg   ContractConfig    `yaml:"contract"`
	Constraints   ConstraintsConfig `yaml:"trade_constraints"`
}

type ServerConfig struct {
	Port string `yaml:"port" env-default:":8080"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Db       int    `yaml:"db"`
	Password string `yaml:"password"`
}

type NatsConfig struct {
	URL string `yaml:"url" env-default:"nats://localhost:4222"`
}

type BinanceConfig struct {
	BaseURL      string   `yaml:"base_url"`
	Endpoint     string   `yaml:"book_ticker_endpoint"`
	Symbols      []string `yaml:"symbols"`
	PollInterval int      `yaml:"poll_interval_seconds" env-default:"5"`
}

type ContractConfig struct {
	Symbol string `yaml:"symbol" env-default:"BTCUSDT"`
	// Network drives the expiry schedule: mainnet expires on Sundays,
	// everything else at midnight.
	Network              string  `yaml:"network" env-default:"regtest"`
	OrderMatchingFeeRate float64 `yaml:"order_matching_fee_rate" env-default:"0.003"`
	MinLeverage          float64 `yaml:"min_leverage" env-default:"1"`
	MaxLeverage          float64 `yaml:"max_leverage" env-default:"10"`
	DefaultQuantity      float64 `yaml:"default_quantity" env-default:"100"`
	DefaultLeverage      float64 `yaml:"default_leverage" env-default:"2"`
}

type ConstraintsConfig struct {
	MaxLocalMarginSats        int64   `yaml:"max_local_margin_sats"`
	MaxCounterpartyMarginSats int64   `yaml:"max_counterparty_margin_sats"`
	CoordinatorLeverage       float64 `yaml:"coordinator_leverage" env-default:"2"`
	MinQuantity               int64   `yaml:"min_quantity" env-default:"1"`
	IsChannelBalance          bool    `yaml:"is_channel_balance"`
	OnChainFeeEstimateSats    int64   `yaml:"on_chain_fee_estimate_sats"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config file is empty")
	}

	return MustLoadByPath(path)
}

func MustLoadByPath(path string) *Config {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		panic("config file not found " + path)
	}

	var config Config

	if err := cleanenv.ReadConfig(path, &config); err != nil {
		panic("failed to read config " + err.Error())
	}

	return &config
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}

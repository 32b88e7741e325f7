package config

import (
	"log"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	viper "github.com/spf13/viper"
)

/*
把init config跟read config分開
init : 需要設置viper watch 與 onConfigChange
read : 一般讀寫 需要使用讀寫鎖
*/
var config_singleton *ConfigSingleTon
var muonce sync.Once

type ConfigSingleTon struct {
	Config *Config
	mu     sync.RWMutex
}

type Config struct {
	ServerPort            string  `mapstructure:"SERVER_PORT"`
	DbName                string  `mapstructure:"POSTGRES_DB"`
	DbHost                string  `mapstructure:"POSTGRES_HOST"`
	DbPort                string  `mapstructure:"POSTGRES_PORT"`
	DbUser                string  `mapstructure:"POSTGRES_USER"`
	DbPas                 string  `mapstructure:"POSTGRES_PASSWORD"`
	RedisAddr             string  `mapstructure:"REDIS_ADDR"`
	RedisPas              string  `mapstructure:"REDIS_PASSWORD"`
	KafkaBrokers          string  `mapstructure:"KAFKA_BROKERS"` // 逗號分隔
	KafkaOrderTopic       string  `mapstructure:"KAFKA_ORDER_TOPIC"`
	PaymentAPIURL         string  `mapstructure:"PAYMENT_API_URL"`
	PaymentSecretKey      string  `mapstructure:"PAYMENT_SECRET_KEY"`
	PaymentWebhookSecret  string  `mapstructure:"PAYMENT_WEBHOOK_SECRET"`
	Currency              string  `mapstructure:"CURRENCY"`
	TaxRate               float64 `mapstructure:"TAX_RATE"`
	ShippingFee           float64 `mapstructure:"SHIPPING_FEE"`
	FreeShippingThreshold float64 `mapstructure:"FREE_SHIPPING_THRESHOLD"`
	MetricsBufferSize     int     `mapstructure:"METRICS_BUFFER_SIZE"`
}

func (c *Config) KafkaBrokerList() []string {
	if c.KafkaBrokers == "" {
		return nil
	}
	brokers := strings.Split(c.KafkaBrokers, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	return brokers
}

func GetConfig() *Config {
	initConfig()
	config_singleton.mu.RLock()
	defer config_singleton.mu.RUnlock()
	return config_singleton.Config
}

func initConfig() {
	if config_singleton == nil {
		muonce.Do(func() {
			config_singleton = &ConfigSingleTon{}
			if cf, err := loadConfig(); err == nil {
				config_singleton.Config = cf
			} else {
				log.Fatal("error read config")
			}
			viper.WatchConfig()
			viper.OnConfigChange(func(e fsnotify.Event) {
				if cf, err := loadConfig(); err == nil {
					config_singleton.mu.Lock()
					config_singleton.Config = cf
					config_singleton.mu.Unlock()
				} else {
					log.Panic("failed to reload config file")
				}
			})
		})
	}
}

/*
單純回傳錯誤 由外部決定要不要Fatal, 畢竟有可能有替代方案
*/
func loadConfig() (cf *Config, err error) {
	cf = &Config{}
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	setDefaults()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(cf)
	if err != nil {
		return
	}
	return
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("CURRENCY", "USD")
	viper.SetDefault("TAX_RATE", 0.05)
	viper.SetDefault("SHIPPING_FEE", 5.0)
	viper.SetDefault("FREE_SHIPPING_THRESHOLD", 100.0)
	viper.SetDefault("METRICS_BUFFER_SIZE", 1000)
	viper.SetDefault("KAFKA_ORDER_TOPIC", "storefront.order.events")
}

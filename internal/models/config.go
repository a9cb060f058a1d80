package models

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type StoreConfig struct {
	Driver        string `mapstructure:"driver"` // memory, postgres or mongo
	PostgresURL   string `mapstructure:"postgres_url"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
}

type StorageConfig struct {
	Provider      string        `mapstructure:"provider"` // s3 or public
	Region        string        `mapstructure:"region"`
	BucketName    string        `mapstructure:"bucket_name"`
	PublicBaseURL string        `mapstructure:"public_base_url"`
	URLExpiry     time.Duration `mapstructure:"url_expiry"`
}

type KafkaConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	BrokerList  string `mapstructure:"broker_list"`
	OrdersTopic string `mapstructure:"orders_topic"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type HTTPConfig struct {
	Addr          string   `mapstructure:"addr"`
	CORSOrigins   []string `mapstructure:"cors_origins"`
	PublicMenuURL string   `mapstructure:"public_menu_url"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
	File   string `mapstructure:"file"`
}

type MigrationConfig struct {
	BatchSize int `mapstructure:"batch_size"`
}

type CatalogConfig struct {
	CategoryOrder []string `mapstructure:"category_order"`
}

type SeedConfig struct {
	Restaurants        int   `mapstructure:"restaurants"`
	ItemsPerRestaurant int   `mapstructure:"items_per_restaurant"`
	Seed               int64 `mapstructure:"seed"`
}

type ExportConfig struct {
	OutputFolder string `mapstructure:"output_folder"`
	ToCloud      bool   `mapstructure:"to_cloud"`
}

type Config struct {
	Store     StoreConfig     `mapstructure:"store"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Redis     RedisConfig     `mapstructure:"redis"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Log       LogConfig       `mapstructure:"log"`
	Migration MigrationConfig `mapstructure:"migration"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Seed      SeedConfig      `mapstructure:"seed"`
	Export    ExportConfig    `mapstructure:"export"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.postgres_url", "")
	v.SetDefault("store.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("store.mongo_database", "menuar")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket_name", "")
	v.SetDefault("storage.public_base_url", "")
	v.SetDefault("storage.provider", "public")
	v.SetDefault("storage.url_expiry", "15m")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.broker_list", "localhost:9092")
	v.SetDefault("kafka.orders_topic", "menuar.orders")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "5m")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.cors_origins", []string{"*"})
	v.SetDefault("http.public_menu_url", "http://localhost:3000/menu")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.format", "text")
	v.SetDefault("migration.batch_size", 400)
	v.SetDefault("catalog.category_order", []string{})
	v.SetDefault("seed.restaurants", 3)
	v.SetDefault("seed.items_per_restaurant", 12)
	v.SetDefault("seed.seed", 0)
	v.SetDefault("export.output_folder", "export")
	v.SetDefault("export.to_cloud", false)
}

// LoadConfig initializes and reads the configuration using Viper. A missing
// config file is not an error when cfgFile is empty; defaults and MENUAR_*
// environment variables still apply.
func LoadConfig(cfgFile string) (*Config, error) {
	return LoadConfigWith(viper.GetViper(), cfgFile)
}

func LoadConfigWith(v *viper.Viper, cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	setDefaults(v)
	v.SetEnvPrefix("menuar")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("config")
		v.SetConfigName("menuar")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}

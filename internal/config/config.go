package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"paycheckout/internal/entity"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

type (
	Config struct {
		App           App           `yaml:"app"           env-prefix:"APP_"`
		Logger        Logger        `yaml:"logger"        env-prefix:"LOGGER_"`
		HTTP          HTTP          `yaml:"http"          env-prefix:"HTTP_"`
		Metrics       Metrics       `yaml:"metrics"       env-prefix:"METRICS_"`
		Gateway       Gateway       `yaml:"gateway"       env-prefix:"GATEWAY_"`
		Notifications Notifications `yaml:"notifications" env-prefix:"NOTIFICATIONS_"`
		Kafka         Kafka         `yaml:"kafka"         env-prefix:"KAFKA_"`
		Env           string        `yaml:"env"           env:"ENV" env-default:"local" validate:"oneof=local dev staging prod"`
	}

	App struct {
		Name    string `yaml:"name"    env:"NAME"    validate:"required"`
		Version string `yaml:"version" env:"VERSION" validate:"required"`
		NodeID  int64  `yaml:"node_id" env:"NODE_ID" validate:"gte=0,lte=1023" env-default:"1"`
	}

	HTTP struct {
		Host              string        `yaml:"host"                env:"HOST"                validate:"required"                 env-default:"0.0.0.0"`
		Port              string        `yaml:"port"                env:"PORT"                validate:"required,gte=1,lte=65535" env-default:"3000"`
		ReadTimeout       time.Duration `yaml:"read_timeout"        env:"READ_TIMEOUT"        validate:"gte=10ms,lte=30s"         env-default:"5s"`
		WriteTimeout      time.Duration `yaml:"write_timeout"       env:"WRITE_TIMEOUT"       validate:"gte=10ms,lte=2m"          env-default:"75s"`
		IdleTimeout       time.Duration `yaml:"idle_timeout"        env:"IDLE_TIMEOUT"        validate:"gte=10ms,lte=2m"          env-default:"60s"`
		ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"    env:"SHUTDOWN_TIMEOUT"    validate:"gte=10ms,lte=2m"          env-default:"10s"`
		ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"READ_HEADER_TIMEOUT" validate:"gte=10ms,lte=30s"         env-default:"5s"`
		AllowedOrigins    []string      `yaml:"allowed_origins"     env:"ALLOWED_ORIGINS"     validate:"min=1"                    env-default:"*" env-separator:","`
	}

	Metrics struct {
		Host              string        `yaml:"host"                env:"HOST"                validate:"required"                 env-default:"0.0.0.0"`
		Port              string        `yaml:"port"                env:"PORT"                validate:"required,gte=1,lte=65535" env-default:"9090"`
		ReadTimeout       time.Duration `yaml:"read_timeout"        env:"READ_TIMEOUT"        validate:"gte=10ms,lte=30s"         env-default:"5s"`
		WriteTimeout      time.Duration `yaml:"write_timeout"       env:"WRITE_TIMEOUT"       validate:"gte=10ms,lte=30s"         env-default:"5s"`
		ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"READ_HEADER_TIMEOUT" validate:"gte=10ms,lte=30s"         env-default:"5s"`
	}

	Logger struct {
		Level      string `yaml:"level"       env:"LEVEL"       env-default:"info"                        validate:"oneof=debug info warn error"`
		Filename   string `yaml:"filename"    env:"FILENAME"    env-default:"./logs/checkout-service.log"`
		MaxSize    int    `yaml:"max_size"    env:"MAX_SIZE"    env-default:"100"                         validate:"min=1,max=1000"`
		MaxBackups int    `yaml:"max_backups" env:"MAX_BACKUPS" env-default:"3"                           validate:"min=1,max=20"`
		MaxAge     int    `yaml:"max_age"     env:"MAX_AGE"     env-default:"28"                          validate:"min=1,max=365"`
	}

	Gateway struct {
		DefaultProfile string        `yaml:"default_profile" env:"DEFAULT_PROFILE" validate:"oneof=legacy orders charges" env-default:"orders"`
		RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT" validate:"gte=100ms,lte=60s"            env-default:"30s"`
		UserAgent      string        `yaml:"user_agent"      env:"USER_AGENT"                                               env-default:"paycheckout/1.0"`
		Legacy         LegacyProfile `yaml:"legacy"          env-prefix:"LEGACY_"`
		Orders         RESTProfile   `yaml:"orders"          env-prefix:"ORDERS_"`
		Charges        RESTProfile   `yaml:"charges"         env-prefix:"CHARGES_"`
	}

	LegacyProfile struct {
		Enabled         bool    `yaml:"enabled"          env:"ENABLED"`
		Endpoint        string  `yaml:"endpoint"         env:"ENDPOINT"          validate:"required_if=Enabled true,omitempty,url"  env-default:"https://ws.pagseguro.uol.com.br/v2/checkout"`
		PaymentPageURL  string  `yaml:"payment_page_url" env:"PAYMENT_PAGE_URL"  validate:"required_if=Enabled true,omitempty,url"  env-default:"https://pagseguro.uol.com.br/v2/checkout/payment.html"`
		Email           string  `yaml:"email"            env:"EMAIL"             validate:"required_if=Enabled true,omitempty,email"`
		Token           string  `yaml:"token"            env:"TOKEN"             validate:"required_if=Enabled true"`
		Currency        string  `yaml:"currency"         env:"CURRENCY"          validate:"len=3"                                   env-default:"BRL"`
		ItemID          string  `yaml:"item_id"          env:"ITEM_ID"           validate:"required"                                env-default:"0001"`
		ItemDescription string  `yaml:"item_description" env:"ITEM_DESCRIPTION"  validate:"required,max=100"                        env-default:"Magic Germinator Professional"`
		RequireShipping bool    `yaml:"require_shipping" env:"REQUIRE_SHIPPING"                                                     env-default:"true"`
		ShippingType    int     `yaml:"shipping_type"    env:"SHIPPING_TYPE"     validate:"oneof=1 2 3"                             env-default:"3"`
		ShippingCost    float64 `yaml:"shipping_cost"    env:"SHIPPING_COST"     validate:"gte=0"                                   env-default:"0"`
		RedirectURL     string  `yaml:"redirect_url"     env:"REDIRECT_URL"      validate:"omitempty,url"`
		NotificationURL string  `yaml:"notification_url" env:"NOTIFICATION_URL"  validate:"omitempty,url"`
		MaxUses         int     `yaml:"max_uses"         env:"MAX_USES"          validate:"min=1,max=999"                           env-default:"1"`
		MaxAge          int     `yaml:"max_age"          env:"MAX_AGE"           validate:"min=30,max=999999999"                    env-default:"3600"`
		TaxIDDigits     int     `yaml:"tax_id_digits"    env:"TAX_ID_DIGITS"     validate:"oneof=11 14"                             env-default:"11"`
		ReferencePrefix string  `yaml:"reference_prefix" env:"REFERENCE_PREFIX"  validate:"max=20"                                  env-default:"MG_"`
	}

	RESTProfile struct {
		Enabled          bool     `yaml:"enabled"           env:"ENABLED"`
		Endpoint         string   `yaml:"endpoint"          env:"ENDPOINT"          validate:"required_if=Enabled true,omitempty,url"`
		Token            string   `yaml:"token"             env:"TOKEN"             validate:"required_if=Enabled true"`
		PhoneCountry     string   `yaml:"phone_country"     env:"PHONE_COUNTRY"     validate:"numeric"           env-default:"55"`
		AddressCountry   string   `yaml:"address_country"   env:"ADDRESS_COUNTRY"   validate:"len=3"             env-default:"BRA"`
		Currency         string   `yaml:"currency"          env:"CURRENCY"          validate:"len=3"             env-default:"BRL"`
		ItemReference    string   `yaml:"item_reference"    env:"ITEM_REFERENCE"    validate:"required"          env-default:"magic_germinator"`
		ItemName         string   `yaml:"item_name"         env:"ITEM_NAME"         validate:"required,max=100"  env-default:"Magic Germinator Professional"`
		NotificationURLs []string `yaml:"notification_urls" env:"NOTIFICATION_URLS" validate:"dive,url"          env-separator:","`
		RequireShipping  bool     `yaml:"require_shipping"  env:"REQUIRE_SHIPPING"`
		TaxIDDigits      int      `yaml:"tax_id_digits"     env:"TAX_ID_DIGITS"     validate:"oneof=11 14"       env-default:"11"`
		ReferencePrefix  string   `yaml:"reference_prefix"  env:"REFERENCE_PREFIX"  validate:"max=20"            env-default:"MG_"`
	}

	Notifications struct {
		DedupCapacity   int           `yaml:"dedup_capacity"   env:"DEDUP_CAPACITY"   validate:"min=1,max=1000000" env-default:"10000"`
		DedupTTL        time.Duration `yaml:"dedup_ttl"        env:"DEDUP_TTL"        validate:"gt=0s,lte=72h"     env-default:"24h"`
		CleanupInterval time.Duration `yaml:"cleanup_interval" env:"CLEANUP_INTERVAL" validate:"gt=0s,lte=24h"     env-default:"1m"`
		PublishTimeout  time.Duration `yaml:"publish_timeout"  env:"PUBLISH_TIMEOUT"  validate:"gte=10ms,lte=30s"  env-default:"5s"`
	}

	Kafka struct {
		Enabled      bool          `yaml:"enabled"       env:"ENABLED"`
		Brokers      []string      `yaml:"brokers"       env:"BROKERS"       validate:"required_if=Enabled true,dive,hostname_port" env-separator:","`
		Topic        string        `yaml:"topic"         env:"TOPIC"         validate:"required_if=Enabled true"                    env-default:"payment-notifications"`
		BatchSize    int           `yaml:"batch_size"    env:"BATCH_SIZE"    validate:"min=1,max=1000"                              env-default:"1"`
		BatchTimeout time.Duration `yaml:"batch_timeout" env:"BATCH_TIMEOUT" validate:"gte=1ms,lte=30s"                             env-default:"10ms"`
		WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT" validate:"gte=1ms,lte=30s"                             env-default:"2s"`
		ReadTimeout  time.Duration `yaml:"read_timeout"  env:"READ_TIMEOUT"  validate:"gte=1ms,lte=30s"                             env-default:"2s"`
	}
)

func Load() (*Config, error) {
	path := fetchConfigPath()
	if path == "" {
		return nil, entity.ErrConfigPathNotSet
	}
	return LoadPath(path)
}

func LoadPath(configPath string) (*Config, error) {
	const op = "config.LoadPath"

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: config file does not exist: %s", op, configPath)
	} else if err != nil {
		return nil, fmt.Errorf("%s: checking config file: %w", op, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: read config: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	validate := validator.New()

	var validationErrors []string
	if err := validate.Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, ve := range validationErrs {
				validationErrors = append(validationErrors,
					fmt.Sprintf("%s=%v must satisfy '%s'", ve.Namespace(), ve.Value(), ve.Tag()))
			}
			return fmt.Errorf("config validation: %v", strings.Join(validationErrors, "; "))
		}
		return fmt.Errorf("config validation: %w", err)
	}

	if !c.Gateway.profileEnabled(c.Gateway.DefaultProfile) {
		return fmt.Errorf("config validation: default profile %q is not enabled", c.Gateway.DefaultProfile)
	}

	return nil
}

func fetchConfigPath() string {
	var path string
	flag.StringVar(&path, "config", "", "Path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

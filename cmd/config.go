package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	PaymentProviderRazorpay = "razorpay"
	PaymentProviderSandbox  = "sandbox"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" env-default:"local"`
	HTTPPort string `env:"HTTP_PORT" env-default:"8080"`

	DBHost     string `env:"DB_HOST" env-default:"localhost"`
	DBPort     string `env:"DB_PORT" env-default:"5432"`
	DBUser     string `env:"DB_USER" env-default:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" env-default:"compliance"`
	DBSslMode  string `env:"DB_SSLMODE" env-default:"disable"`

	StorageDriver    string `env:"STORAGE_DRIVER" env-default:"postgres"`
	BlobRoot         string `env:"BLOB_ROOT" env-default:"./data/blobs"`
	DocumentMaxBytes int64  `env:"DOCUMENT_MAX_BYTES" env-default:"10485760"`
	DefaultCurrency  string `env:"DEFAULT_CURRENCY" env-default:"INR"`

	PaymentProvider        string        `env:"PAYMENT_PROVIDER" env-default:"sandbox"`
	PaymentProviderURL     string        `env:"PAYMENT_PROVIDER_URL" env-default:"https://api.razorpay.com"`
	PaymentKeyID           string        `env:"PAYMENT_KEY_ID"`
	PaymentKeySecret       string        `env:"PAYMENT_KEY_SECRET"`
	PaymentWebhookSecret   string        `env:"PAYMENT_WEBHOOK_SECRET"`
	PaymentProviderTimeout time.Duration `env:"PAYMENT_PROVIDER_TIMEOUT" env-default:"10s"`
	PaymentReconcileCron   string        `env:"PAYMENT_RECONCILE_CRON" env-default:"0 */5 * * * *"`
	PaymentReconcileGrace  time.Duration `env:"PAYMENT_RECONCILE_GRACE" env-default:"15m"`
	PaymentExpiry          time.Duration `env:"PAYMENT_EXPIRY" env-default:"24h"`
	PaymentReconcileBatch  int           `env:"PAYMENT_RECONCILE_BATCH" env-default:"100"`

	KafkaBrokers           string `env:"KAFKA_BROKERS"`
	KafkaOrderChangedTopic string `env:"KAFKA_ORDER_CHANGED_TOPIC" env-default:"compliance.order.changed"`

	InvoiceIssuer string `env:"INVOICE_ISSUER" env-default:"Compliance Services"`
}

// LoadConfig reads the environment, after loading .env when one exists.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("error loading .env file: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("error reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errList []error
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		errList = append(errList, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q",
			StorageDriverPostgres, StorageDriverMemory, c.StorageDriver))
	}
	switch c.PaymentProvider {
	case PaymentProviderSandbox:
	case PaymentProviderRazorpay:
		if c.PaymentKeyID == "" || c.PaymentKeySecret == "" {
			errList = append(errList, errors.New("PAYMENT_KEY_ID and PAYMENT_KEY_SECRET are required for razorpay"))
		}
		if c.PaymentWebhookSecret == "" {
			errList = append(errList, errors.New("PAYMENT_WEBHOOK_SECRET is required for razorpay"))
		}
	default:
		errList = append(errList, fmt.Errorf("PAYMENT_PROVIDER must be %q or %q, got %q",
			PaymentProviderRazorpay, PaymentProviderSandbox, c.PaymentProvider))
	}
	if c.DocumentMaxBytes <= 0 {
		errList = append(errList, fmt.Errorf("DOCUMENT_MAX_BYTES must be positive, got %d", c.DocumentMaxBytes))
	}
	if c.PaymentExpiry < c.PaymentReconcileGrace {
		errList = append(errList, errors.New("PAYMENT_EXPIRY must not be shorter than PAYMENT_RECONCILE_GRACE"))
	}
	return errors.Join(errList...)
}

func (c Config) IsLocal() bool {
	return c.AppEnv == "local"
}

// DSN is the gorm postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

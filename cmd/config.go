package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"pos/internal/adapters/out/rabbitmq"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
)

type Config struct {
	HTTPPort string

	DBURL      string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RabbitHost     string
	RabbitPort     int
	RabbitUser     string
	RabbitPassword string
	RabbitVHost    string
	RabbitTLS      bool

	RefDataPath string
	SpoolPath   string
	PrinterDir  string
}

// LoadConfig reads the environment, after loading envFile when it exists.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	rabbitPort, err := strconv.Atoi(getenv("RABBITMQ_PORT", "5672"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid RABBITMQ_PORT: %w", err)
	}
	rabbitTLS, err := strconv.ParseBool(getenv("RABBITMQ_TLS", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid RABBITMQ_TLS: %w", err)
	}

	return Config{
		HTTPPort:       getenv("HTTP_PORT", "8080"),
		DBURL:          os.Getenv("DB_URL"),
		DBHost:         getenv("DB_HOST", "localhost"),
		DBPort:         getenv("DB_PORT", "5432"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         getenv("DB_NAME", "pos"),
		DBSslMode:      getenv("DB_SSLMODE", "disable"),
		RabbitHost:     getenv("RABBITMQ_HOST", "localhost"),
		RabbitPort:     rabbitPort,
		RabbitUser:     getenv("RABBITMQ_USER", "guest"),
		RabbitPassword: getenv("RABBITMQ_PASSWORD", "guest"),
		RabbitVHost:    getenv("RABBITMQ_VHOST", "/"),
		RabbitTLS:      rabbitTLS,
		RefDataPath:    getenv("REFDATA_PATH", "outlet.yaml"),
		SpoolPath:      getenv("SPOOL_PATH", "sales-spool.db"),
		PrinterDir:     os.Getenv("PRINTER_DIR"),
	}, nil
}

// DSN is the postgres connection string. DB_URL wins over the individual
// settings.
func (c Config) DSN() (string, error) {
	if c.DBURL != "" {
		dsn, err := pq.ParseURL(c.DBURL)
		if err != nil {
			return "", fmt.Errorf("invalid DB_URL: %w", err)
		}
		return dsn, nil
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode), nil
}

func (c Config) Rabbit() rabbitmq.Config {
	return rabbitmq.Config{
		Host:     c.RabbitHost,
		Port:     c.RabbitPort,
		User:     c.RabbitUser,
		Password: c.RabbitPassword,
		VHost:    c.RabbitVHost,
		UseTLS:   c.RabbitTLS,
	}
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

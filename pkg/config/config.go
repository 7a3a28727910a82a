package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  string
	LogLevel    string
	DatabaseURL string

	JWTAccessSecret []byte

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
}

// LoadEnvFile loads variables from the given .env files. Missing files are not an error,
// the process environment is used as is.
func LoadEnvFile(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		log.Printf("notice: .env not loaded: %v, using system environment variables", err)
	}
}

func Load() Config {
	return Config{
		ServiceName:     Getenv("SERVICE_NAME", "billing"),
		ServerPort:      Getenv("SERVER_PORT", "8080"),
		LogLevel:        Getenv("LOG_LEVEL", "info"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTAccessSecret: []byte(os.Getenv("JWT_SECRET")),
		KafkaBrokers:    GetenvList("KAFKA_BROKERS"),
		ESURL:           os.Getenv("ES_URL"),
		ESUser:          os.Getenv("ES_USER"),
		ESPassword:      os.Getenv("ES_PASSWORD"),
	}
}

func Getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func GetenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func GetenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func GetenvList(k string) []string {
	v := os.Getenv(k)
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func MustNonEmpty(v string, name string) {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
}

package internal

import (
	"time"
)

type Config struct {
	Host              string        `env:"HOST,default=0.0.0.0"`
	Port              int           `env:"PORT,default=8080"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	AuthSecret        string        `env:"AUTH_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	CacheTTL          time.Duration `env:"CACHE_TTL,default=15m"`
	NotifyBufferSize  int           `env:"NOTIFY_BUFFER_SIZE,default=256"`
	SMTPHost          string        `env:"SMTP_HOST,default=localhost"`
	SMTPPort          int           `env:"SMTP_PORT,default=25"`
	SMTPFrom          string        `env:"SMTP_FROM,default=no-reply@courier.local"`
}

package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	Database  Database  `envPrefix:"DB_"`
	Gateway   Gateway   `envPrefix:"GATEWAY_"`
	Stripe    Stripe    `envPrefix:"STRIPE_"`
	BrainTree Braintree `envPrefix:"BRAINTREE_"`
	Auth      Auth      `envPrefix:"AUTH_"`
	Sweeper   Sweeper   `envPrefix:"SWEEPER_"`
}

type Database struct {
	Driver          string        `env:"DRIVER" envDefault:"sqlite"` // mysql, sqlite
	URL             string        `env:"URL" envDefault:"checkout.db"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"50"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"1h"`
	SeedCourses     bool          `env:"SEED_COURSES" envDefault:"true"`
}

type Gateway struct {
	Provider string `env:"PROVIDER" envDefault:"stripe"` // stripe, braintree
}

type Stripe struct {
	BaseApiURL    string        `env:"BASE_API_URL" envDefault:"https://api.stripe.com"`
	SecretKey     string        `env:"SECRET_KEY"`
	WebhookSecret string        `env:"WEBHOOK_SECRET"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type Braintree struct {
	Environment string `env:"ENVIRONMENT"`
	MerchantID  string `env:"MERCHANT_ID"`
	PublicKey   string `env:"PUBLIC_KEY"`
	PrivateKey  string `env:"PRIVATE_KEY"`
	Currency    string `env:"CURRENCY" envDefault:"usd"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET,notEmpty"`
}

type Sweeper struct {
	Enabled   bool          `env:"ENABLED" envDefault:"true"`
	Interval  time.Duration `env:"INTERVAL" envDefault:"1m"`
	BatchSize int           `env:"BATCH_SIZE" envDefault:"50"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host            string        `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

func (h HTTPServer) Address() string {
	return h.Host + ":" + h.Port
}

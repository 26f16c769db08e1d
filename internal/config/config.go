package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
	Email    EmailConfig    `yaml:"email"`
	Drain    DrainConfig    `yaml:"drain"`
	NATS     NATSConfig     `yaml:"nats"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Drain-Secret"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host               string        `yaml:"host"                  env:"SERVER_HOST"                   env-default:"0.0.0.0"`
	Port               int           `yaml:"port"                  env:"SERVER_PORT"                   env-default:"8080"`
	ReadTimeout        time.Duration `yaml:"read_timeout"          env:"SERVER_READ_TIMEOUT"           env-default:"10s"`
	WriteTimeout       time.Duration `yaml:"write_timeout"         env:"SERVER_WRITE_TIMEOUT"          env-default:"120s"`
	IdleTimeout        time.Duration `yaml:"idle_timeout"          env:"SERVER_IDLE_TIMEOUT"           env-default:"60s"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"      env:"SERVER_SHUTDOWN_TIMEOUT"       env-default:"10s"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute" env:"SERVER_RATE_LIMIT_PER_MINUTE"  env-default:"120"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds bearer token verification settings. Tokens are issued by
// the hosted auth provider and signed with a shared HS256 secret.
type AuthConfig struct {
	JWTSecret   string `yaml:"jwt_secret"   env:"AUTH_JWT_SECRET"   env-required:"true"`
	JWTIssuer   string `yaml:"jwt_issuer"   env:"AUTH_JWT_ISSUER"`
	JWTAudience string `yaml:"jwt_audience" env:"AUTH_JWT_AUDIENCE" env-default:"authenticated"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// EmailConfig holds transactional email provider settings.
type EmailConfig struct {
	APIKey         string        `yaml:"api_key"         env:"EMAIL_API_KEY"`
	BaseURL        string        `yaml:"base_url"        env:"EMAIL_BASE_URL"        env-default:"https://api.resend.com"`
	From           string        `yaml:"from"            env:"EMAIL_FROM"            env-default:"Care Notifications <notifications@carehome.local>"`
	DefaultSubject string        `yaml:"default_subject" env:"EMAIL_DEFAULT_SUBJECT" env-default:"Care home notification"`
	SendDelay      time.Duration `yaml:"send_delay"      env:"EMAIL_SEND_DELAY"      env-default:"500ms"`
	Timeout        time.Duration `yaml:"timeout"         env:"EMAIL_TIMEOUT"         env-default:"10s"`
	BreakerTimeout time.Duration `yaml:"breaker_timeout" env:"EMAIL_BREAKER_TIMEOUT" env-default:"30s"`
}

// Configured reports whether credentials for the email provider are present.
func (c EmailConfig) Configured() bool {
	return c.APIKey != ""
}

// DrainConfig holds queue drain settings.
type DrainConfig struct {
	BatchSize     int           `yaml:"batch_size"     env:"DRAIN_BATCH_SIZE"     env-default:"25"`
	MaxBatchSize  int           `yaml:"max_batch_size" env:"DRAIN_MAX_BATCH_SIZE" env-default:"100"`
	StaleAfter    time.Duration `yaml:"stale_after"    env:"DRAIN_STALE_AFTER"    env-default:"15m"`
	TriggerSecret string        `yaml:"trigger_secret" env:"DRAIN_TRIGGER_SECRET"`
	JobTimeout    time.Duration `yaml:"job_timeout"    env:"DRAIN_JOB_TIMEOUT"    env-default:"5m"`
}

// NATSConfig holds realtime bus settings. An empty URL disables publishing.
type NATSConfig struct {
	URL           string        `yaml:"url"            env:"NATS_URL"`
	SubjectPrefix string        `yaml:"subject_prefix" env:"NATS_SUBJECT_PREFIX" env-default:"notifications"`
	ConnectWait   time.Duration `yaml:"connect_wait"   env:"NATS_CONNECT_WAIT"   env-default:"2s"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}

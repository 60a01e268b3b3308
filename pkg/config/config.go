package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Mongo      MongoConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	OAuth      OAuthConfig
	JWT        JWTConfig
	Assembly   AssemblyAIConfig
	Groq       GroqConfig
	AI         AIConfig
	Mail       MailConfig
	Storage    StorageConfig
	Report     ReportConfig
	SessionKey string `envconfig:"SESSION_SECRET" default:"dev-session-secret-change-me"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	FrontendURL     string        `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`
	StaticDir       string        `envconfig:"STATIC_DIR"`
	MaxUploadSize   string        `envconfig:"MAX_UPLOAD_SIZE" default:"100M"`
}

// MongoConfig holds the meeting document store configuration
type MongoConfig struct {
	URI      string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	Database string        `envconfig:"MONGO_DATABASE" default:"audio_text"`
	Timeout  time.Duration `envconfig:"MONGO_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds the identity database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"meeting_intel"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"true"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// OAuthConfig holds OAuth configuration
type OAuthConfig struct {
	Google GoogleOAuthConfig
}

// GoogleOAuthConfig holds Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	ClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `envconfig:"GOOGLE_REDIRECT_URL" default:"http://localhost:8080/api/auth/google/callback"`
}

// Enabled reports whether Google login can be offered
func (g GoogleOAuthConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET" default:"dev-jwt-secret-change-me"`
	Expiry time.Duration `envconfig:"JWT_EXPIRY" default:"1h"`
}

// AssemblyAIConfig holds the transcription provider configuration
type AssemblyAIConfig struct {
	APIKey  string `envconfig:"ASSEMBLYAI_API_KEY"`
	BaseURL string `envconfig:"ASSEMBLYAI_BASE_URL"`
}

// GroqConfig holds the text generation provider configuration
type GroqConfig struct {
	APIKey  string `envconfig:"GROQ_API_KEY"`
	BaseURL string `envconfig:"GROQ_API_URL" default:"https://api.groq.com"`
	Model   string `envconfig:"GROQ_MODEL" default:"llama-3.3-70b-versatile"`
}

// AIConfig bounds every outbound AI call
type AIConfig struct {
	Timeout    time.Duration `envconfig:"AI_TIMEOUT" default:"3m"`
	MaxRetries uint64        `envconfig:"AI_MAX_RETRIES" default:"2"`
	// JobTimeout bounds a whole upload or preparation request
	JobTimeout time.Duration `envconfig:"AI_JOB_TIMEOUT" default:"15m"`
}

// MailConfig holds SMTP configuration
type MailConfig struct {
	Service    string        `envconfig:"EMAIL_SERVICE" default:"Gmail"`
	User       string        `envconfig:"EMAIL_USER"`
	Password   string        `envconfig:"EMAIL_PASS"`
	From       string        `envconfig:"EMAIL_FROM"`
	Timeout    time.Duration `envconfig:"MAIL_TIMEOUT" default:"20s"`
	MaxRetries uint64        `envconfig:"MAIL_MAX_RETRIES" default:"2"`
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Enabled         bool   `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"meeting-audio"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// ReportConfig points the PDF export at UTF-8 TrueType fonts. Empty keeps the built-in
// Helvetica, which cannot draw Cyrillic or CJK text.
type ReportConfig struct {
	FontRegular string `envconfig:"REPORT_FONT_REGULAR"`
	FontBold    string `envconfig:"REPORT_FONT_BOLD"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive")
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if !c.IsProduction() {
		return nil
	}
	if c.JWT.Secret == "" || c.JWT.Secret == "dev-jwt-secret-change-me" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.SessionKey == "" || c.SessionKey == "dev-session-secret-change-me" {
		return fmt.Errorf("SESSION_SECRET is required in production")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

package configs

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config carries every externally tunable value. It is loaded once in main
// and handed to each component at construction time; nothing reads the
// environment after startup.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	MongoURI string `env:"MONGOURI" envDefault:"mongodb://localhost:27017"`
	MongoDB  string `env:"MONGO_DB" envDefault:"memegenerator"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`

	// Template source used by the one-shot catalog seeder.
	TemplateAPIURL     string        `env:"TEMPLATE_API_URL" envDefault:"https://api.imgflip.com"`
	TemplateAPITimeout time.Duration `env:"TEMPLATE_API_TIMEOUT" envDefault:"5s"`

	// Asset host that stores uploaded images and hands back deletion handles.
	AssetHostURL string `env:"ASSET_HOST_URL" envDefault:""`
	AssetAPIKey  string `env:"ASSET_API_KEY" envDefault:""`

	TemplateCacheTTL time.Duration `env:"TEMPLATE_CACHE_TTL" envDefault:"15m"`

	RateLimit       int           `env:"RATE_LIMIT" envDefault:"120"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"`

	// Debug attaches upstream error detail to 500 responses.
	Debug bool `env:"DEBUG" envDefault:"false"`
}

// Load reads .env when present and parses the environment into a Config.
func Load() (*Config, error) {
	// .env is optional outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

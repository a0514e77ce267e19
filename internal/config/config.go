package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"3001"`
	AppEnv        string `env:"APP_ENV" envDefault:"development"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	JWTSecret     string `env:"JWT_SECRET,required"`
	CORSOrigin    string `env:"CORS_ORIGIN" envDefault:"http://localhost:8080"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
// JWT_SECRET y DATABASE_URL son obligatorias: sin ellas el arranque falla.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction indica si el servicio corre en producción.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

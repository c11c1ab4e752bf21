package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Privilege define qual família de endpoints o cliente usa.
type Privilege string

const (
	PrivilegeUser  Privilege = "user"
	PrivilegeAdmin Privilege = "admin"
)

// Config armazena todas as configurações do stockdesk.
type Config struct {
	// Geral
	Environment string `env:"ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Locale      string `env:"LOCALE" envDefault:"pt-BR"`

	// API de inventário (consumida pelo cliente)
	APIBaseURL        string    `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
	Privilege         Privilege `env:"PRIVILEGE" envDefault:"user"`
	RequestTimeoutSec int       `env:"REQUEST_TIMEOUT_SEC" envDefault:"10"`

	// Página (snapshot renderizado pelo servidor)
	PageFile string `env:"PAGE_FILE" envDefault:"page.yaml"`

	// Sandbox
	SandboxPort        string `env:"SANDBOX_PORT" envDefault:"8080"`
	CSRFSecretKey      string `env:"CSRF_SECRET_KEY" envDefault:"sandbox-dev-secret"`
	CSRFHeader         string `env:"CSRF_HEADER" envDefault:"X-CSRF-TOKEN"`
	CSRFTokenExpiryMin int    `env:"CSRF_TOKEN_EXPIRY_MIN" envDefault:"480"`
}

// RequestTimeout devolve o timeout das chamadas HTTP como time.Duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// CSRFTokenExpiry devolve a validade do token anti-falsificação emitido pelo sandbox.
func (c *Config) CSRFTokenExpiry() time.Duration {
	return time.Duration(c.CSRFTokenExpiryMin) * time.Minute
}

// LoadConfig carrega as configurações do .env (opcional) e das variáveis de ambiente.
func LoadConfig(envFile string) (*Config, error) {
	// O .env é opcional: as variáveis podem vir do ambiente do sistema (ex: Docker).
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("falha ao ler arquivo de ambiente %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("falha ao interpretar variáveis de ambiente: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate garante que os campos obrigatórios estão coerentes.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config é nil")
	}

	switch c.Privilege {
	case PrivilegeUser, PrivilegeAdmin:
	default:
		return fmt.Errorf("PRIVILEGE inválido: %q (use user ou admin)", c.Privilege)
	}

	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL deve ser definido")
	}
	if c.RequestTimeoutSec <= 0 {
		return errors.New("REQUEST_TIMEOUT_SEC deve ser positivo")
	}
	if c.CSRFHeader == "" {
		return errors.New("CSRF_HEADER deve ser definido")
	}
	if c.CSRFTokenExpiryMin <= 0 {
		return errors.New("CSRF_TOKEN_EXPIRY_MIN deve ser positivo")
	}
	return nil
}

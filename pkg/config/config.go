package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

const defaultSeedAdminEmail = "admin@gestor-rh.local"

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
// Se carga una vez al arrancar y se pasa por valor a los constructores; nada la relee en caliente.
type Config struct {
	App    AppConfig
	DB     DBConfig
	JWT    JWTConfig
	Tokens TokenConfig
	HTTP   HTTPConfig
	SMTP   SMTPConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env       string // development, staging, production
	Name      string
	LogLevel  string
	PublicURL string // base para los enlaces de recuperación e invitación
	Store     string // postgres | memory

	// Solo STORE_DRIVER=memory: administrador invitado al arrancar.
	SeedAdminEmail string
	SeedAdminName  string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int32
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig llaves RSA (PEM en base64) y parámetros del access token.
type JWTConfig struct {
	PrivateKey string
	PublicKey  string
	Expiration time.Duration
	Issuer     string
}

// TokenConfig vigencia de los tokens de un solo uso y costo de bcrypt.
type TokenConfig struct {
	RecoveryTTL   time.Duration
	ActivationTTL time.Duration
	BcryptCost    int
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SMTPConfig servidor de correo. Host vacío = los enlaces solo se registran en el log.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled informa si hay servidor SMTP configurado.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_PRIVATE_KEY, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:       getString(v, "APP_ENV", "development"),
			Name:      getString(v, "APP_NAME", "gestor-rh"),
			LogLevel:  getString(v, "LOG_LEVEL", "info"),
			PublicURL: strings.TrimRight(getString(v, "APP_PUBLIC_URL", "http://localhost:3000"), "/"),
			Store:     getString(v, "STORE_DRIVER", StorePostgres),

			SeedAdminEmail: getString(v, "SEED_ADMIN_EMAIL", ""),
			SeedAdminName:  getString(v, "SEED_ADMIN_NAME", "Administrador"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "gestor_rh"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    int32(getInt(v, "DB_MAX_CONNS", 25)),
		},
		JWT: JWTConfig{
			PrivateKey: getString(v, "JWT_PRIVATE_KEY", ""),
			PublicKey:  getString(v, "JWT_PUBLIC_KEY", ""),
			Expiration: time.Duration(getInt(v, "JWT_EXPIRATION_MINUTES", 60)) * time.Minute,
			Issuer:     getString(v, "JWT_ISSUER", "gestor-rh"),
		},
		Tokens: TokenConfig{
			RecoveryTTL:   time.Duration(getInt(v, "RECOVERY_TOKEN_TTL_MINUTES", 60)) * time.Minute,
			ActivationTTL: time.Duration(getInt(v, "ACTIVATION_TOKEN_TTL_HOURS", 72)) * time.Hour,
			BcryptCost:    getInt(v, "BCRYPT_COST", 10),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		SMTP: SMTPConfig{
			Host:     getString(v, "SMTP_HOST", ""),
			Port:     getInt(v, "SMTP_PORT", 587),
			User:     getString(v, "SMTP_USER", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "SMTP_FROM", "no-reply@gestor-rh.local"),
		},
	}
	if cfg.App.Store == StoreMemory && cfg.App.SeedAdminEmail == "" {
		cfg.App.SeedAdminEmail = defaultSeedAdminEmail
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.PrivateKey == "" || c.JWT.PublicKey == "" {
		return fmt.Errorf("config: JWT_PRIVATE_KEY y JWT_PUBLIC_KEY son obligatorias")
	}
	if c.JWT.Expiration <= 0 || c.Tokens.RecoveryTTL <= 0 || c.Tokens.ActivationTTL <= 0 {
		return fmt.Errorf("config: las vigencias de token deben ser positivas")
	}
	if c.App.Store != StorePostgres && c.App.Store != StoreMemory {
		return fmt.Errorf("config: STORE_DRIVER desconocido %q", c.App.Store)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

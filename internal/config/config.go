// Package config carga la configuración del servicio desde YAML con
// overrides por variables de entorno. Se carga UNA vez al arranque y se
// trata como inmutable de ahí en más.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// TokenConfig configura un tipo de token (access/refresh/permission).
// Cada tipo usa un secreto independiente para que un secreto filtrado no
// permita forjar tokens de otro tipo.
type TokenConfig struct {
	Secret    string `yaml:"secret"`
	TTL       string `yaml:"ttl"`
	NotBefore string `yaml:"not_before"`
	Issuer    string `yaml:"issuer"`
	Audience  string `yaml:"audience"`
}

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr         string `yaml:"addr"`
		MetricsAddr  string `yaml:"metrics_addr"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Token struct {
		Access     TokenConfig `yaml:"access"`
		Refresh    TokenConfig `yaml:"refresh"`
		RememberMe string      `yaml:"remember_me_ttl"` // TTL largo de refresh
		Permission TokenConfig `yaml:"permission"`

		// Header del permission token para operaciones sensibles.
		PermissionHeader string `yaml:"permission_header"`

		// Cifrado del cuerpo de claims (AES-256-CBC). Se decide al arranque
		// para todo el deployment; clave e IV en base64.
		Encrypt       bool   `yaml:"encrypt"`
		EncryptionKey string `yaml:"encryption_key"`
		EncryptionIV  string `yaml:"encryption_iv"`
	} `yaml:"token"`

	Basic struct {
		// Credenciales para callers service-to-service (Authorization: Basic).
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
	} `yaml:"basic"`

	Storage struct {
		// driver: memory | postgres
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxConns int `yaml:"max_conns"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		// kind: memory | redis
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`
}

// Load lee el YAML, aplica defaults y overrides de entorno, y valida.
// path vacío arranca solo con defaults + entorno.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Token.Access.TTL == "" {
		c.Token.Access.TTL = "15m"
	}
	if c.Token.Refresh.TTL == "" {
		c.Token.Refresh.TTL = "168h" // 7d
	}
	if c.Token.RememberMe == "" {
		c.Token.RememberMe = "720h" // 30d
	}
	if c.Token.Permission.TTL == "" {
		c.Token.Permission.TTL = "5m"
	}
	if c.Token.PermissionHeader == "" {
		c.Token.PermissionHeader = "X-Permission-Token"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "2m"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}

	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// applyEnvOverrides pisa el YAML con variables de entorno.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("METRICS_ADDR"); ok {
		c.Server.MetricsAddr = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	if v, ok := getEnvStr("TOKEN_ACCESS_SECRET"); ok {
		c.Token.Access.Secret = v
	}
	if v, ok := getEnvStr("TOKEN_REFRESH_SECRET"); ok {
		c.Token.Refresh.Secret = v
	}
	if v, ok := getEnvStr("TOKEN_PERMISSION_SECRET"); ok {
		c.Token.Permission.Secret = v
	}
	if v, ok := getEnvStr("TOKEN_ACCESS_TTL"); ok {
		c.Token.Access.TTL = v
	}
	if v, ok := getEnvStr("TOKEN_REFRESH_TTL"); ok {
		c.Token.Refresh.TTL = v
	}
	if v, ok := getEnvStr("TOKEN_REMEMBER_ME_TTL"); ok {
		c.Token.RememberMe = v
	}
	if v, ok := getEnvStr("TOKEN_PERMISSION_TTL"); ok {
		c.Token.Permission.TTL = v
	}
	if v, ok := getEnvStr("TOKEN_PERMISSION_HEADER"); ok {
		c.Token.PermissionHeader = v
	}
	if v, ok := getEnvBool("TOKEN_ENCRYPT"); ok {
		c.Token.Encrypt = v
	}
	if v, ok := getEnvStr("TOKEN_ENCRYPTION_KEY"); ok {
		c.Token.EncryptionKey = v
	}
	if v, ok := getEnvStr("TOKEN_ENCRYPTION_IV"); ok {
		c.Token.EncryptionIV = v
	}

	if v, ok := getEnvStr("BASIC_CLIENT_ID"); ok {
		c.Basic.ClientID = v
	}
	if v, ok := getEnvStr("BASIC_CLIENT_SECRET"); ok {
		c.Basic.ClientSecret = v
	}

	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("STORAGE_PG_MAX_CONNS"); ok {
		c.Storage.Postgres.MaxConns = v
	}

	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("CACHE_REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt("CACHE_REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}

	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvInt("RATE_LOGIN_LIMIT"); ok {
		c.Rate.Login.Limit = v
	}
	if v, ok := getEnvStr("RATE_LOGIN_WINDOW"); ok {
		c.Rate.Login.Window = v
	}
}

// Validate chequea coherencia básica. Los secretos por tipo son obligatorios.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Token.Access.Secret) == "" {
		return errors.New("config: token.access.secret requerido (TOKEN_ACCESS_SECRET)")
	}
	if strings.TrimSpace(c.Token.Refresh.Secret) == "" {
		return errors.New("config: token.refresh.secret requerido (TOKEN_REFRESH_SECRET)")
	}
	if strings.TrimSpace(c.Token.Permission.Secret) == "" {
		return errors.New("config: token.permission.secret requerido (TOKEN_PERMISSION_SECRET)")
	}
	for name, d := range map[string]string{
		"token.access.ttl":     c.Token.Access.TTL,
		"token.refresh.ttl":    c.Token.Refresh.TTL,
		"token.remember_me":    c.Token.RememberMe,
		"token.permission.ttl": c.Token.Permission.TTL,
		"rate.login.window":    c.Rate.Login.Window,
	} {
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("config: %s inválido: %w", name, err)
		}
	}
	if c.Token.Encrypt {
		if _, err := c.EncryptionKeyBytes(); err != nil {
			return err
		}
		if _, err := c.EncryptionIVBytes(); err != nil {
			return err
		}
	}
	switch c.Storage.Driver {
	case "memory", "postgres":
	default:
		return fmt.Errorf("config: storage.driver desconocido: %q", c.Storage.Driver)
	}
	switch c.Cache.Kind {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: cache.kind desconocido: %q", c.Cache.Kind)
	}
	return nil
}

// Dur parsea una duración ya validada.
func Dur(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

// EncryptionKeyBytes decodifica la clave AES (base64, 32 bytes).
func (c *Config) EncryptionKeyBytes() ([]byte, error) {
	k, err := base64.StdEncoding.DecodeString(strings.TrimSpace(c.Token.EncryptionKey))
	if err != nil {
		return nil, fmt.Errorf("config: token.encryption_key no es base64: %w", err)
	}
	if len(k) != 32 {
		return nil, fmt.Errorf("config: token.encryption_key debe decodificar a 32 bytes, obtuvo %d", len(k))
	}
	return k, nil
}

// EncryptionIVBytes decodifica el IV AES (base64, 16 bytes).
func (c *Config) EncryptionIVBytes() ([]byte, error) {
	iv, err := base64.StdEncoding.DecodeString(strings.TrimSpace(c.Token.EncryptionIV))
	if err != nil {
		return nil, fmt.Errorf("config: token.encryption_iv no es base64: %w", err)
	}
	if len(iv) != 16 {
		return nil, fmt.Errorf("config: token.encryption_iv debe decodificar a 16 bytes, obtuvo %d", len(iv))
	}
	return iv, nil
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

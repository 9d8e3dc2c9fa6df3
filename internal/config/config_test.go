package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("TOKEN_ACCESS_SECRET", "ka")
	t.Setenv("TOKEN_REFRESH_SECRET", "kr")
	t.Setenv("TOKEN_PERMISSION_SECRET", "kp")
}

func TestLoad_DefaultsFromEnvOnly(t *testing.T) {
	setSecrets(t)

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Addr != ":8080" {
		t.Fatalf("default addr: %q", c.Server.Addr)
	}
	if c.Token.Access.TTL != "15m" || c.Token.Permission.TTL != "5m" {
		t.Fatalf("default ttls: %q / %q", c.Token.Access.TTL, c.Token.Permission.TTL)
	}
	if c.Token.PermissionHeader != "X-Permission-Token" {
		t.Fatalf("default permission header: %q", c.Token.PermissionHeader)
	}
	if c.Storage.Driver != "memory" || c.Cache.Kind != "memory" {
		t.Fatalf("default backends: %q / %q", c.Storage.Driver, c.Cache.Kind)
	}
	if Dur(c.Token.RememberMe) != 720*time.Hour {
		t.Fatalf("default remember ttl: %q", c.Token.RememberMe)
	}
}

func TestLoad_MissingSecretFails(t *testing.T) {
	t.Setenv("TOKEN_ACCESS_SECRET", "ka")
	t.Setenv("TOKEN_REFRESH_SECRET", "kr")
	t.Setenv("TOKEN_PERMISSION_SECRET", "")

	if _, err := Load(""); err == nil {
		t.Fatalf("missing permission secret should fail validation")
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	setSecrets(t)
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("TOKEN_ACCESS_TTL", "1m")
	t.Setenv("TOKEN_PERMISSION_HEADER", "X-Elevation")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "server:\n  addr: \":8080\"\ntoken:\n  access:\n    ttl: 30m\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Addr != ":9999" {
		t.Fatalf("env should override yaml addr, got %q", c.Server.Addr)
	}
	if c.Token.Access.TTL != "1m" {
		t.Fatalf("env should override yaml ttl, got %q", c.Token.Access.TTL)
	}
	if c.Token.PermissionHeader != "X-Elevation" {
		t.Fatalf("permission header override, got %q", c.Token.PermissionHeader)
	}
}

func TestLoad_InvalidDurationFails(t *testing.T) {
	setSecrets(t)
	t.Setenv("TOKEN_ACCESS_TTL", "fifteen minutes")

	if _, err := Load(""); err == nil {
		t.Fatalf("unparseable duration should fail validation")
	}
}

func TestLoad_EncryptKeySizes(t *testing.T) {
	setSecrets(t)
	t.Setenv("TOKEN_ENCRYPT", "true")
	t.Setenv("TOKEN_ENCRYPTION_KEY", base64.StdEncoding.EncodeToString([]byte("short")))
	t.Setenv("TOKEN_ENCRYPTION_IV", base64.StdEncoding.EncodeToString(make([]byte, 16)))

	if _, err := Load(""); err == nil {
		t.Fatalf("16-byte iv with short key should fail")
	}

	t.Setenv("TOKEN_ENCRYPTION_KEY", base64.StdEncoding.EncodeToString(make([]byte, 32)))
	c, err := Load("")
	if err != nil {
		t.Fatalf("valid key/iv should load: %v", err)
	}
	k, err := c.EncryptionKeyBytes()
	if err != nil || len(k) != 32 {
		t.Fatalf("key bytes: %v len=%d", err, len(k))
	}
	iv, err := c.EncryptionIVBytes()
	if err != nil || len(iv) != 16 {
		t.Fatalf("iv bytes: %v len=%d", err, len(iv))
	}
}

func TestLoad_UnknownDriverFails(t *testing.T) {
	setSecrets(t)
	t.Setenv("STORAGE_DRIVER", "cassandra")

	if _, err := Load(""); err == nil {
		t.Fatalf("unknown storage driver should fail validation")
	}
}

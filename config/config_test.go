package config

import (
	"os"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
log:
  level: "debug"
  format: "json"
auth:
  jwt_secret: "test-secret"
  token_expire_hours: 48
store:
  driver: "sqlite"
  dsn: "file:contracts.db"
redis:
  addr: "localhost:6379"
minio:
  endpoint: "localhost:9000"
  access_key: "minioadmin"
  secret_key: "minioadmin"
  bucket: "exports"
  expire_days: 14
contract:
  currency: "$"
rate_limit:
  requests_per_minute: 30
  burst: 5
cors:
  allow_origins: ["http://localhost:5173"]
users:
  - id: "u-1"
    username: "jane"
    password_hash: "$2a$10$abcdefghijklmnopqrstuv"
    display_name: "Jane Doe"
    role: "planner"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Expected debug/json logging, got %s/%s", cfg.Log.Level, cfg.Log.Format)
	}
	if cfg.Auth.TokenExpireHours != 48 {
		t.Errorf("Expected token_expire_hours 48, got %d", cfg.Auth.TokenExpireHours)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.DSN != "file:contracts.db" {
		t.Errorf("Unexpected store config: %+v", cfg.Store)
	}
	if cfg.Redis.Channel != "contracts" {
		t.Errorf("Expected default redis channel contracts, got %s", cfg.Redis.Channel)
	}
	if cfg.Minio.Bucket != "exports" || cfg.Minio.ExpireDays != 14 {
		t.Errorf("Unexpected minio config: %+v", cfg.Minio)
	}
	if cfg.Contract.Currency != "$" {
		t.Errorf("Expected currency $, got %s", cfg.Contract.Currency)
	}
	if cfg.RateLimit.RequestsPerMinute != 30 || cfg.RateLimit.Burst != 5 {
		t.Errorf("Unexpected rate limit config: %+v", cfg.RateLimit)
	}
	if len(cfg.CORS.AllowOrigins) != 1 {
		t.Errorf("Expected 1 CORS origin, got %d", len(cfg.CORS.AllowOrigins))
	}
	if len(cfg.Users) != 1 || cfg.Users[0].DisplayName != "Jane Doe" {
		t.Errorf("Unexpected users: %+v", cfg.Users)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "secret"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("Expected default store driver memory, got %s", cfg.Store.Driver)
	}
	if cfg.Minio.ExpireDays != 7 {
		t.Errorf("Expected default expire_days 7, got %d", cfg.Minio.ExpireDays)
	}
	if cfg.Auth.TokenExpireHours != 24 {
		t.Errorf("Expected default token_expire_hours 24, got %d", cfg.Auth.TokenExpireHours)
	}
	if cfg.Contract.Currency != "R" {
		t.Errorf("Expected default currency R, got %s", cfg.Contract.Currency)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Expected default log format text, got %s", cfg.Log.Format)
	}
	if cfg.RateLimit.RequestsPerMinute != 100 {
		t.Errorf("Expected default rate limit 100, got %d", cfg.RateLimit.RequestsPerMinute)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("REDIS_ADDR", "redis:6379")

	path := writeConfig(t, `
auth:
  jwt_secret: "from-file"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("Expected jwt secret from env, got %s", cfg.Auth.JWTSecret)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Expected port 7070, got %d", cfg.Server.Port)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("Expected redis addr from env, got %s", cfg.Redis.Addr)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "invalid: yaml: content:"},
		{"unknown driver", "store:\n  driver: \"mongo\"\n"},
		{"postgres without dsn", "store:\n  driver: \"postgres\"\n"},
		{"digit in currency", "contract:\n  currency: \"R1\"\n"},
		{"unknown role", "users:\n  - username: \"x\"\n    role: \"admin\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestLoadNonExistent(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestFindUser(t *testing.T) {
	cfg := &Config{
		Users: []User{
			{ID: "1", Username: "user1", Role: "planner"},
			{ID: "2", Username: "user2", Role: "vendor"},
		},
	}

	user := cfg.FindUser("user2")
	if user == nil {
		t.Fatal("Expected to find user2")
	}
	if user.Role != "vendor" {
		t.Errorf("Expected role vendor, got %s", user.Role)
	}

	if cfg.FindUser("nonexistent") != nil {
		t.Error("Expected nil for non-existent user")
	}
}

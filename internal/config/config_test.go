package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
app:
  name: "peregovorka-test"
server:
  port: 8123
database:
  path: "test.db"
auth:
  bootstrap_admin:
    email: "admin@example.com"
    password: "secret"
client:
  token_file: ".test-token"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "peregovorka-test" {
		t.Errorf("expected app name peregovorka-test, got %s", cfg.App.Name)
	}
	if cfg.Server.Port != 8123 {
		t.Errorf("expected port 8123, got %d", cfg.Server.Port)
	}
	if cfg.Auth.BootstrapAdmin.Email != "admin@example.com" {
		t.Errorf("unexpected bootstrap admin email %s", cfg.Auth.BootstrapAdmin.Email)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
database:
  path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != 86400 {
		t.Errorf("expected default token ttl 86400, got %d", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Errorf("expected default bcrypt cost 12, got %d", cfg.Auth.BcryptCost)
	}
	if cfg.Client.BaseURL != "http://localhost:8000" {
		t.Errorf("expected client base url derived from port, got %s", cfg.Client.BaseURL)
	}
	if cfg.Client.TokenFile != ".roomctl-token" {
		t.Errorf("expected default token file, got %s", cfg.Client.TokenFile)
	}
}

func TestLoadConfig_EnvExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
database:
  path: "${TEST_DB_PATH}"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	t.Setenv("TEST_DB_PATH", "expanded.db")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Database.Path != "expanded.db" {
		t.Errorf("expected expanded.db, got %s", cfg.Database.Path)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     Config{Database: DatabaseConfig{Path: "p"}, Auth: AuthConfig{BcryptCost: 12}},
			wantErr: false,
		},
		{
			name:    "missing database path",
			cfg:     Config{Auth: AuthConfig{BcryptCost: 12}},
			wantErr: true,
		},
		{
			name:    "bcrypt cost out of range",
			cfg:     Config{Database: DatabaseConfig{Path: "p"}, Auth: AuthConfig{BcryptCost: 99}},
			wantErr: true,
		},
		{
			name: "bootstrap admin without password",
			cfg: Config{
				Database: DatabaseConfig{Path: "p"},
				Auth:     AuthConfig{BcryptCost: 12, BootstrapAdmin: BootstrapAdmin{Email: "a@b.c"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

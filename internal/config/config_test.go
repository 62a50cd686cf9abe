package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.OTP.MaxAttempts != 3 {
		t.Errorf("otp max attempts = %d, want 3", cfg.OTP.MaxAttempts)
	}
	if cfg.RequestSize != 10*1024 {
		t.Errorf("request size = %d, want 10KB", cfg.RequestSize)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "http://localhost:3005" {
		t.Errorf("cors origins = %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Jobs.ExpirySweepInterval != time.Hour {
		t.Errorf("sweep interval = %v, want 1h", cfg.Jobs.ExpirySweepInterval)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("OTP_MAX_ATTEMPTS", "5")
	t.Setenv("JWT_ACCESS_TTL", "2h")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OTP.MaxAttempts != 5 {
		t.Errorf("otp max attempts = %d, want 5", cfg.OTP.MaxAttempts)
	}
	if cfg.JWT.AccessTTL != 2*time.Hour {
		t.Errorf("access ttl = %v, want 2h", cfg.JWT.AccessTTL)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(viper.New()); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestBindFlags(t *testing.T) {
	v := viper.New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(v, fs); err != nil {
		t.Fatalf("BindFlags() error = %v", err)
	}
	if err := fs.Parse([]string{"--migrate-only", "--issue-token", "ops@example.com", "--token-ttl", "1h"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	flags := ReadFlags(v)
	if !flags.MigrateOnly || flags.IssueToken != "ops@example.com" || flags.TokenTTL != time.Hour {
		t.Fatalf("unexpected flags: %+v", flags)
	}
}

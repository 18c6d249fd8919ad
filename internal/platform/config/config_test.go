package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	env := map[string]string{
		"STOREFRONT_CATALOG_BASE_URL": "https://cms.example.com/",
	}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Catalog.BaseURL != "https://cms.example.com" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.AttemptTimeout != 6*time.Second {
		t.Errorf("unexpected attempt timeout: %s", cfg.Catalog.AttemptTimeout)
	}
	if cfg.Catalog.MaxRetries != 2 {
		t.Errorf("unexpected max retries: %d", cfg.Catalog.MaxRetries)
	}
	if cfg.Catalog.CacheTTL != time.Minute {
		t.Errorf("unexpected cache ttl: %s", cfg.Catalog.CacheTTL)
	}
	if cfg.Catalog.PageSize != 24 {
		t.Errorf("unexpected page size: %d", cfg.Catalog.PageSize)
	}
	if cfg.Checkout.WhatsAppPhone != defaultWhatsAppPhone {
		t.Errorf("unexpected whatsapp phone: %s", cfg.Checkout.WhatsAppPhone)
	}
	if cfg.Checkout.DefaultLocale != "es" {
		t.Errorf("unexpected default locale: %s", cfg.Checkout.DefaultLocale)
	}
	if cfg.Session.MaxCarts != defaultMaxCarts {
		t.Errorf("unexpected max carts: %d", cfg.Session.MaxCarts)
	}
	if !cfg.IsLocal() {
		t.Errorf("expected local environment by default, got %s", cfg.Environment)
	}
}

func TestLoadWithOverridesAndSecrets(t *testing.T) {
	env := map[string]string{
		"STOREFRONT_ENVIRONMENT":             "prod",
		"STOREFRONT_SERVER_PORT":             "9090",
		"STOREFRONT_SERVER_WRITE_TIMEOUT":    "25s",
		"STOREFRONT_CATALOG_BASE_URL":        "https://cms.example.com",
		"STOREFRONT_CATALOG_TOKEN":           "sm://catalog/token",
		"STOREFRONT_CATALOG_MAX_RETRIES":     "4",
		"STOREFRONT_CATALOG_CACHE_TTL":       "0s",
		"STOREFRONT_CHECKOUT_DEFAULT_LOCALE": "EN",
		"STOREFRONT_SESSION_HASH_KEY":        "secret://session/hash",
		"STOREFRONT_SESSION_BLOCK_KEY":       "0123456789abcdef",
		"STOREFRONT_SESSION_SECURE_COOKIE":   "yes",
	}

	var refs []string
	resolver := SecretResolverFunc(func(ctx context.Context, ref string) (string, error) {
		refs = append(refs, ref)
		return "resolved:" + ref, nil
	})

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""), WithSecretResolver(resolver))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" || cfg.Server.WriteTimeout != 25*time.Second {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Catalog.Token != "resolved:secret://catalog/token" {
		t.Errorf("expected sm:// reference normalised and resolved, got %s", cfg.Catalog.Token)
	}
	if cfg.Catalog.MaxRetries != 4 {
		t.Errorf("unexpected max retries: %d", cfg.Catalog.MaxRetries)
	}
	if cfg.Catalog.CacheTTL != 0 {
		t.Errorf("expected cache disabled, got %s", cfg.Catalog.CacheTTL)
	}
	if cfg.Checkout.DefaultLocale != "en" {
		t.Errorf("expected lower-cased locale, got %s", cfg.Checkout.DefaultLocale)
	}
	if cfg.Session.HashKey != "resolved:secret://session/hash" {
		t.Errorf("unexpected hash key: %s", cfg.Session.HashKey)
	}
	if cfg.Session.BlockKey != "0123456789abcdef" {
		t.Errorf("plain values must pass through, got %s", cfg.Session.BlockKey)
	}
	if !cfg.Session.SecureCookie {
		t.Error("expected secure cookie enabled")
	}
	if cfg.IsLocal() {
		t.Error("prod environment reported as local")
	}
	if len(refs) != 2 {
		t.Errorf("expected two secret lookups, got %v", refs)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	env := map[string]string{
		"STOREFRONT_ENVIRONMENT":       "prod",
		"STOREFRONT_CATALOG_PAGE_SIZE": "0",
		"STOREFRONT_SESSION_BLOCK_KEY": "short",
	}

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	fields := validationErr.Fields()
	for _, want := range []string{"Catalog.BaseURL", "Catalog.PageSize", "Session.BlockKey", "Session.HashKey"} {
		if !slices.Contains(fields, want) {
			t.Errorf("expected %s in %v", want, fields)
		}
	}
}

func TestLoadRejectsRelativeBaseURL(t *testing.T) {
	env := map[string]string{"STOREFRONT_CATALOG_BASE_URL": "cms.local"}
	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLoadSecretResolutionFailure(t *testing.T) {
	env := map[string]string{
		"STOREFRONT_CATALOG_BASE_URL": "https://cms.example.com",
		"STOREFRONT_CATALOG_TOKEN":    "secret://catalog/token",
	}
	boom := errors.New("boom")
	resolver := SecretResolverFunc(func(ctx context.Context, ref string) (string, error) {
		return "", boom
	})

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""), WithSecretResolver(resolver))
	var secretErr *SecretError
	if !errors.As(err, &secretErr) {
		t.Fatalf("expected SecretError, got %v", err)
	}
	if secretErr.Ref != "secret://catalog/token" {
		t.Errorf("unexpected ref: %s", secretErr.Ref)
	}
	if !errors.Is(err, boom) {
		t.Error("expected underlying error to be wrapped")
	}
}

func TestLoadReadsDotEnvWithLowestPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\nSTOREFRONT_CATALOG_BASE_URL=\"https://dotenv.example.com\"\nSTOREFRONT_SERVER_PORT=7070\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	env := map[string]string{"STOREFRONT_SERVER_PORT": "6060"}
	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(path))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Catalog.BaseURL != "https://dotenv.example.com" {
		t.Errorf("expected base url from .env, got %s", cfg.Catalog.BaseURL)
	}
	if cfg.Server.Port != "6060" {
		t.Errorf("expected env map to win over .env, got %s", cfg.Server.Port)
	}
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	env := map[string]string{"STOREFRONT_CATALOG_BASE_URL": "https://cms.example.com"}
	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(filepath.Join(t.TempDir(), "missing.env")))
	if err != nil {
		t.Fatalf("expected missing .env to be ignored, got %v", err)
	}
}

func TestEnvironmentValuesPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("A=dotenv\nB=dotenv\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	values, err := EnvironmentValues(WithEnvFile(path), WithoutSystemEnv(), WithEnvMap(map[string]string{"B": "map"}))
	if err != nil {
		t.Fatalf("EnvironmentValues returned error: %v", err)
	}
	if values["A"] != "dotenv" || values["B"] != "map" {
		t.Errorf("unexpected values: %v", values)
	}
}

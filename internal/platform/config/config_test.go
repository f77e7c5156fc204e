package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	domain "github.com/shopease/api/internal/domain"
)

func TestLoadWithDefaults(t *testing.T) {
	env := map[string]string{
		"API_FIRESTORE_PROJECT_ID": "shopease-dev",
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
	if cfg.Gateway.Currency != "INR" {
		t.Errorf("expected default currency INR, got %s", cfg.Gateway.Currency)
	}
	if cfg.Pricing.TaxRate != 0.18 {
		t.Errorf("expected default tax rate 0.18, got %v", cfg.Pricing.TaxRate)
	}
	if cfg.Pricing.StandardShipping != 3000 || cfg.Pricing.ExpressShipping != 10000 {
		t.Errorf("unexpected shipping defaults: %d / %d", cfg.Pricing.StandardShipping, cfg.Pricing.ExpressShipping)
	}
	if cfg.Pricing.UnpaidDeleteGrace != 48*time.Hour {
		t.Errorf("unexpected delete grace: %s", cfg.Pricing.UnpaidDeleteGrace)
	}
	if cfg.Notifications.ProjectID != "shopease-dev" {
		t.Errorf("expected notifications project to default to firestore project, got %s", cfg.Notifications.ProjectID)
	}
	if cfg.Notifications.Topic != "transactional-email" {
		t.Errorf("unexpected default topic: %s", cfg.Notifications.Topic)
	}
	if cfg.Sweep.Interval != 24*time.Hour {
		t.Errorf("unexpected sweep interval: %s", cfg.Sweep.Interval)
	}
	if cfg.Sweep.Timezone != "Asia/Kolkata" {
		t.Errorf("unexpected sweep timezone: %s", cfg.Sweep.Timezone)
	}
	if cfg.Pagination.OrdersPerPage != 10 || cfg.Pagination.CouponsPerPage != 10 {
		t.Errorf("unexpected pagination defaults: %d / %d", cfg.Pagination.OrdersPerPage, cfg.Pagination.CouponsPerPage)
	}
	if cfg.Auth.Issuer != "shopease" {
		t.Errorf("unexpected default issuer: %s", cfg.Auth.Issuer)
	}
}

func TestLoadWithOverridesAndSecrets(t *testing.T) {
	env := map[string]string{
		"API_SERVER_PORT":              "9090",
		"API_SERVER_READ_TIMEOUT":      "20s",
		"API_FIRESTORE_PROJECT_ID":     "shopease-prod",
		"API_GATEWAY_KEY_ID":           "rzp_live_key",
		"API_GATEWAY_KEY_SECRET":       "secret://gateway/key-secret",
		"API_AUTH_JWT_SECRET":          "secret://auth/jwt-secret",
		"API_PRICING_TAX_RATE":         "0.12",
		"API_PRICING_MIN_ORDER_AMOUNT": "5000",
		"API_SWEEP_INTERVAL":           "12h",
		"API_NOTIFICATIONS_PROJECT_ID": "shopease-jobs",
	}

	resolver := SecretResolverFunc(func(_ context.Context, ref string) (string, error) {
		switch ref {
		case "secret://gateway/key-secret":
			return "resolved-gateway-secret", nil
		case "secret://auth/jwt-secret":
			return "resolved-jwt-secret", nil
		default:
			return "", errors.New("unknown secret " + ref)
		}
	})

	cfg, err := Load(context.Background(),
		WithEnvMap(env),
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithSecretResolver(resolver),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected overridden port, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 20*time.Second {
		t.Errorf("expected overridden read timeout, got %s", cfg.Server.ReadTimeout)
	}
	if cfg.Gateway.KeySecret != "resolved-gateway-secret" {
		t.Errorf("expected gateway secret to resolve, got %q", cfg.Gateway.KeySecret)
	}
	if cfg.Auth.JWTSecret != "resolved-jwt-secret" {
		t.Errorf("expected jwt secret to resolve, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.Pricing.TaxRate != 0.12 {
		t.Errorf("expected overridden tax rate, got %v", cfg.Pricing.TaxRate)
	}
	if cfg.Pricing.MinOrderAmount != 5000 {
		t.Errorf("expected overridden min order amount, got %d", cfg.Pricing.MinOrderAmount)
	}
	if cfg.Sweep.Interval != 12*time.Hour {
		t.Errorf("expected overridden sweep interval, got %s", cfg.Sweep.Interval)
	}
	if cfg.Notifications.ProjectID != "shopease-jobs" {
		t.Errorf("expected explicit notifications project, got %s", cfg.Notifications.ProjectID)
	}
}

func TestLoadSecretResolutionFailure(t *testing.T) {
	env := map[string]string{
		"API_FIRESTORE_PROJECT_ID": "shopease-dev",
		"API_GATEWAY_KEY_SECRET":   "secret://gateway/key-secret",
	}

	resolver := SecretResolverFunc(func(context.Context, string) (string, error) {
		return "", errors.New("boom")
	})

	_, err := Load(context.Background(),
		WithEnvMap(env),
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithSecretResolver(resolver),
	)
	if err == nil {
		t.Fatal("expected error when secret resolution fails")
	}
	var secretErr *SecretError
	if !errors.As(err, &secretErr) {
		t.Fatalf("expected SecretError, got %v", err)
	}
}

func TestLoadValidation(t *testing.T) {
	env := map[string]string{
		"API_PRICING_TAX_RATE": "1.5",
	}

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validation.Fields()) == 0 {
		t.Fatal("expected missing fields to be reported")
	}
}

func TestLoadRequiredSecrets(t *testing.T) {
	env := map[string]string{
		"API_FIRESTORE_PROJECT_ID": "shopease-dev",
	}

	_, err := Load(context.Background(),
		WithEnvMap(env),
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithRequiredSecrets("Gateway.KeySecret"),
	)
	if err == nil {
		t.Fatal("expected missing secrets error")
	}
	var missing *MissingSecretsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingSecretsError, got %v", err)
	}
	names := missing.Names()
	if len(names) != 1 || names[0] != "Gateway.KeySecret" {
		t.Fatalf("unexpected missing secrets %v", names)
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	contents := "API_FIRESTORE_PROJECT_ID=shopease-file\nAPI_SERVER_PORT=7070\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(context.Background(), WithoutSystemEnv(), WithEnvFile(path))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Firestore.ProjectID != "shopease-file" {
		t.Errorf("expected project from env file, got %s", cfg.Firestore.ProjectID)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("expected port from env file, got %s", cfg.Server.Port)
	}
}

func TestPricingPolicyConversion(t *testing.T) {
	pricing := PricingConfig{
		TaxRate:            0.18,
		StandardShipping:   3000,
		StandardMinDays:    4,
		StandardMaxDays:    10,
		ExpressShipping:    10000,
		ExpressMinDays:     2,
		ExpressMaxDays:     5,
		MinOrderAmount:     1000,
		MaxQuantityPerItem: 10,
	}

	policy := pricing.Policy()
	standard, ok := policy.DeliveryOptions[domain.DeliveryModeStandard]
	if !ok {
		t.Fatal("expected standard delivery option")
	}
	if standard.ShippingCharge != 3000 || standard.MinDays != 4 || standard.MaxDays != 10 {
		t.Fatalf("unexpected standard option %#v", standard)
	}
	express, ok := policy.DeliveryOptions[domain.DeliveryModeExpress]
	if !ok {
		t.Fatal("expected express delivery option")
	}
	if express.ShippingCharge != 10000 {
		t.Fatalf("unexpected express option %#v", express)
	}
	if policy.MinOrderAmount != 1000 || policy.MaxQuantityPerItem != 10 {
		t.Fatalf("unexpected policy limits %#v", policy)
	}
}

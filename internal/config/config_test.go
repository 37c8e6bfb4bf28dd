package config

import "testing"

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %q, want %q", cfg.Port, DefaultPort)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
	if cfg.ContactURL != DefaultContactURL {
		t.Errorf("ContactURL = %q", cfg.ContactURL)
	}
	if cfg.MaxUploadBytes != DefaultMaxUploadBytes {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
	if cfg.LeadRateLimit != DefaultLeadRateLimit {
		t.Errorf("LeadRateLimit = %d", cfg.LeadRateLimit)
	}
	if cfg.AuthRequired {
		t.Error("AuthRequired should default to false")
	}
	if cfg.MailerConfigured() {
		t.Error("mailer should not be configured without credentials")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"PORT":                "9090",
		"ADMIN_PASSWORD":      "hunter2",
		"SESSION_SECRET":      "a-real-secret-that-is-long-enough",
		"AUTH_REQUIRED":       "true",
		"SENDGRID_API_KEY":    "SG.key",
		"SENDGRID_FROM_EMAIL": "noreply@example.com",
		"MAX_UPLOAD_SIZE":     "2M",
		"LEAD_RATE_LIMIT":     "3",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Addr() != ":9090" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
	if !cfg.AuthRequired {
		t.Error("AuthRequired should be true")
	}
	if !cfg.MailerConfigured() {
		t.Error("mailer should be configured")
	}
	if cfg.MaxUploadBytes != 2*1024*1024 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
	if cfg.LeadRateLimit != 3 {
		t.Errorf("LeadRateLimit = %d", cfg.LeadRateLimit)
	}
	if cfg.AdminPassword != "hunter2" {
		t.Errorf("AdminPassword = %q", cfg.AdminPassword)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad size":       {"MAX_UPLOAD_SIZE": "1TB"},
		"bad rate":       {"LEAD_RATE_LIMIT": "abc"},
		"zero rate":      {"LEAD_RATE_LIMIT": "0"},
		"default secret": {"AUTH_REQUIRED": "true"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := FromEnv(envMap(env)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	cases := map[string]int64{
		"":     DefaultMaxUploadBytes,
		"512":  512,
		"1B":   1,
		"256K": 256 * 1024,
		"10mb": 10 * 1024 * 1024,
		" 1G ": 1024 * 1024 * 1024,
	}
	for input, want := range cases {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("ParseSize(%q): %v", input, err)
		}
		if got != want {
			t.Errorf("ParseSize(%q) = %d, want %d", input, got, want)
		}
	}
	if _, err := ParseSize("1TB"); err == nil {
		t.Error("expected error for unsupported unit")
	}
	if _, err := ParseSize("abc"); err == nil {
		t.Error("expected error for missing number")
	}
}

func TestSecureCookies(t *testing.T) {
	cfg := &Config{FrontendURL: "http://localhost:3000"}
	if cfg.SecureCookies() {
		t.Error("plain HTTP frontend should not use secure cookies")
	}
	cfg.FrontendURL = "https://calculator.example.com"
	if !cfg.SecureCookies() {
		t.Error("HTTPS frontend should use secure cookies")
	}
}

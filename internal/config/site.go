package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Site variants. Both render the same page; they differ in the contact block
// and in where the contact form posts.
const (
	VariantRelay  = "relay"
	VariantDirect = "direct"
)

// ErrInvalidVariant is returned for an unknown site variant.
var ErrInvalidVariant = errors.New("invalid site variant")

// SiteConfig holds the site configuration loaded from config/site.json
type SiteConfig struct {
	SiteName string        `json:"site_name"`
	SiteURL  string        `json:"site_url"`
	Variant  string        `json:"variant"`
	Contact  ContactConfig `json:"contact"`
	Relay    RelayConfig   `json:"relay"`
	Social   []SocialLink  `json:"social"`
}

// ContactConfig holds the contact block shown by the direct variant.
type ContactConfig struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Instagram string `json:"instagram"`
}

// RelayConfig describes the external form-relay endpoint and the fixed hidden
// fields sent along with every submission.
type RelayConfig struct {
	Action  string `json:"action"`
	Subject string `json:"subject"`
	Next    string `json:"next"`
}

// SocialLink is a footer link.
type SocialLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DefaultSiteConfig returns a default configuration
func DefaultSiteConfig() *SiteConfig {
	return &SiteConfig{
		SiteName: "BAMTech Center",
		SiteURL:  "https://bamtechcenter.com",
		Variant:  VariantRelay,
		Contact: ContactConfig{
			Email:     "info@bamtechcenter.com",
			Phone:     "+90 (___) ___ __ __",
			Instagram: "https://instagram.com/bamtechcenter",
		},
		Relay: RelayConfig{
			Action:  "https://formsubmit.co/info@bamtechcenter.com",
			Subject: "BAMTech Center - Yeni iletişim formu",
			Next:    "https://bamtechcenter.com/thanks",
		},
		Social: []SocialLink{
			{Name: "LinkedIn", URL: "#"},
			{Name: "Instagram", URL: "https://instagram.com/bamtechcenter"},
			{Name: "X", URL: "#"},
			{Name: "YouTube", URL: "#"},
		},
	}
}

// Validate checks the fields the renderer depends on.
func (c *SiteConfig) Validate() error {
	switch c.Variant {
	case VariantRelay, VariantDirect:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidVariant, c.Variant)
	}
	if c.Variant == VariantRelay && c.Relay.Action == "" {
		return errors.New("relay.action is required for the relay variant")
	}
	return nil
}

// LoadSiteConfig loads the site configuration from config/site.json.
// A missing or unreadable file yields the defaults; a file that parses but
// fails validation is an error.
func LoadSiteConfig(rootPath string) (*SiteConfig, error) {
	configPath := filepath.Join(rootPath, "config", "site.json")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return DefaultSiteConfig(), nil
	}

	cfg := DefaultSiteConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultSiteConfig(), nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	return cfg, nil
}

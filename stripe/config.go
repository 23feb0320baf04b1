package stripe

import "fmt"

// Config holds the complete Stripe configuration.
type Config struct {
	APIKey        string `yaml:"api_key" json:"api_key"`
	WebhookSecret string `yaml:"webhook_secret" json:"webhook_secret"`
	// Currency is the ISO code used for every checkout, e.g. "usd" or "inr".
	Currency string `yaml:"currency" json:"currency"`
	// SuccessURL and CancelURL are where Stripe redirects the customer after
	// checkout. The session ID placeholder is appended to SuccessURL.
	SuccessURL string `yaml:"success_url" json:"success_url"`
	CancelURL  string `yaml:"cancel_url" json:"cancel_url"`
}

// Validate checks that the required configuration values are present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("stripe API key is required")
	}
	if c.WebhookSecret == "" {
		return fmt.Errorf("stripe webhook secret is required")
	}
	if c.Currency == "" {
		c.Currency = "usd"
	}
	return nil
}

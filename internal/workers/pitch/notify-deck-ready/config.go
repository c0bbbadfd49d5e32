package notifydeckready

import (
	"fmt"
	"time"
)

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	FromEmail    string
	TopicEnabled bool
	TopicARN     string
	DeckBaseURL  string
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:     30 * time.Second,
		FromEmail:   "noreply@pitchcraft.local",
		DeckBaseURL: "http://localhost:8080/api/presentations",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.EmailEnabled && c.FromEmail == "" {
		return fmt.Errorf("from_email is required when email is enabled")
	}
	if c.TopicEnabled && c.TopicARN == "" {
		return fmt.Errorf("topic arn is required when topic is enabled")
	}
	return nil
}

// internal/workers/pitch/extract-business-profile/config.go
package extractbusinessprofile

import "time"

type Config struct {
	Timeout       time.Duration
	CacheTTL      time.Duration
	MaxTextLength int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       10 * time.Second,
		CacheTTL:      time.Hour,
		MaxTextLength: 50000,
	}
}

package generatepresentation

import "time"

type Config struct {
	Timeout       time.Duration
	MaxTextLength int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       120 * time.Second,
		MaxTextLength: 50000,
	}
}

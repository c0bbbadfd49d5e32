package generateimages

import "time"

type Config struct {
	Timeout    time.Duration
	MaxPrompts int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    90 * time.Second,
		MaxPrompts: 20,
	}
}

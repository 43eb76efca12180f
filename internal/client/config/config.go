package config

import "time"

// Config holds runtime settings for the GophChat CLI.
//
// RequestTimeout bounds a single RPC; asking a question waits for the
// model, so it is generous by default.
type Config struct {
	ServerEndpointAddr string
	SessionDir         string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.SessionDir = ".gophchat"
	c.RequestTimeout = 2 * time.Minute
}

// LoadConfig constructs a Config from defaults overlaid with the JSON file
// at path, when path is not empty.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if path == "" {
		return cfg, nil
	}
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

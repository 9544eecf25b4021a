package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultServiceName          = "easyjob"
	DefaultBaseURL              = "http://localhost:8000/api/v1"
	DefaultRequestTimeout       = 10 * time.Second
	DefaultMaxResponseBodyBytes = int64(10 << 20) // 10 MiB
)

type Config struct {
	ServiceName          string        `koanf:"service_name" mapstructure:"service_name"`
	BaseURL              string        `koanf:"base_url" mapstructure:"base_url"`
	RequestTimeout       time.Duration `koanf:"request_timeout" mapstructure:"request_timeout"`
	MaxResponseBodyBytes int64         `koanf:"max_response_body_bytes" mapstructure:"max_response_body_bytes"`
	RefreshCoalescing    bool          `koanf:"refresh_coalescing" mapstructure:"refresh_coalescing"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:          DefaultServiceName,
		BaseURL:              DefaultBaseURL,
		RequestTimeout:       DefaultRequestTimeout,
		MaxResponseBodyBytes: DefaultMaxResponseBodyBytes,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		return fmt.Errorf("core: base_url is required")
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("core: invalid base_url %q: %w", base, err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("core: base_url %q must be an absolute url", base)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("core: request_timeout must be positive")
	}
	if c.MaxResponseBodyBytes < 0 {
		return fmt.Errorf("core: max_response_body_bytes must not be negative")
	}
	return nil
}

// endpoint joins the base url and an api path, keeping any query string.
func (c Config) endpoint(path string) string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

package types

import (
	"errors"
	"net/url"
)

// Config holds the parameters needed to open the stores and reach the
// catalogue dumps.
type Config struct {
	DataDir         string `json:"data_dir" yaml:"data_dir"`
	ResourceBaseURL string `json:"resource_base_url" yaml:"resource_base_url"`
	HTTPTimeoutSecs int    `json:"http_timeout_seconds" yaml:"http_timeout_seconds"`
}

// Config validation errors.
var (
	ErrBaseURLInvalid = errors.New("resource base URL is not a valid URL")
	ErrTimeoutInvalid = errors.New("http timeout must not be negative")
)

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.ResourceBaseURL != "" {
		u, err := url.Parse(c.ResourceBaseURL)
		if err != nil || u.Scheme == "" {
			return ErrBaseURLInvalid
		}
	}
	if c.HTTPTimeoutSecs < 0 {
		return ErrTimeoutInvalid
	}
	return nil
}

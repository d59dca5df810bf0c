package gateway

import (
	"errors"
	"net/http"
	"time"
)

type Option func(*Client)

func Timeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func UserAgent(agent string) Option {
	return func(c *Client) {
		c.userAgent = agent
	}
}

// HTTPClient replaces the default transport; its own Timeout is left untouched.
func HTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.http = client
	}
}

func (c *Client) validate() error {
	if c.timeout <= 0 {
		return errors.New("invalid timeout: must be > 0")
	}

	if c.log == nil {
		return errors.New("logger is required")
	}

	if c.metrics == nil {
		return errors.New("metrics are required")
	}
	return nil
}

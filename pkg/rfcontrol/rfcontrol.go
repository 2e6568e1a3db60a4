package rfcontrol

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Device endpoints
// GET  /rf       -> {"rf_value": "..."}
// POST /command  -> {"hex": "..."} or {"command": "...", "key": "..."}

const (
	DefaultHost = "192.168.31.88"
	DefaultPort = 80

	// Fixed request timeout for both endpoints
	requestTimeout = 5 * time.Second

	pathRF      = "/rf"
	pathCommand = "/command"
)

var ErrUnexpectedStatus = errors.New("unexpected status")
var ErrNilPayload = errors.New("payload is nil")

// Config describes where the transmitter lives.
type Config struct {
	Host string
	Port int

	// Timeout applies to each request. Zero means the 5 second default.
	Timeout time.Duration
}

// BaseURL returns the root URL of the device, e.g. http://192.168.31.88:80
func (c Config) BaseURL() string {
	return "http://" + net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Client talks to a single RF transmitter over HTTP.
type Client struct {
	cfg  Config
	http *http.Client
}

// Reading is the last RF code captured by the device.
type Reading struct {
	RFValue any `json:"rf_value"`
}

// Present reports whether the device included rf_value in its response.
func (r *Reading) Present() bool {
	return r != nil && r.RFValue != nil
}

func (r *Reading) String() string {
	if !r.Present() {
		return "<none>"
	}
	return fmt.Sprint(r.RFValue)
}

func NewClient(cfg Config) *Client {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = requestTimeout
	}

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) Config() Config {
	return c.cfg
}

// formatBody renders a decoded response body as compact JSON for display.
func formatBody(body any) string {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Sprint(body)
	}
	return string(b)
}

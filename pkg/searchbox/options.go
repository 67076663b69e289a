package searchbox

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	httpClient *http.Client
	endpoint   string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// DefaultEndpoint is the storefront AJAX route.
const DefaultEndpoint = "/wc-ajax/nivo_search"

const defaultTimeout = 10 * time.Second

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithEndpoint overrides the search path. Defaults to DefaultEndpoint.
func WithEndpoint(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.endpoint = path
	})
}

// WithLogger enables request logging.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithMetrics registers client metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

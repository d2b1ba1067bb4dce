package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-openapi/inflect"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/linkback/linkback"
)

// Config holds the settings of the HTTP record source.
type Config struct {
	// BaseURL is the root of the read-only content API.
	BaseURL string `yaml:"base_url"`

	// Token is an optional bearer token sent with every request.
	Token string `yaml:"token"`

	// Timeout bounds each request. Defaults to 30s. In YAML it is written
	// in time.ParseDuration notation ("5s", "2m").
	Timeout time.Duration `yaml:"-"`

	// Paths maps a type name to its collection path. Types without an
	// entry use the pluralized, underscored type name ("OrderItem" ->
	// "order_items").
	Paths map[string]string `yaml:"paths"`
}

// DefaultConfig returns the default HTTP source configuration.
func DefaultConfig() Config {
	return Config{Timeout: 30 * time.Second}
}

// LoadConfig reads a YAML configuration file and applies environment
// overrides: LINKBACK_SOURCE_URL and LINKBACK_SOURCE_TOKEN take precedence
// over the file values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("source: reading config: %w", err)
	}
	var raw struct {
		Config  `yaml:",inline"`
		Timeout string `yaml:"timeout"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("source: parsing config: %w", err)
	}
	raw.Config.Timeout = cfg.Timeout
	cfg = raw.Config
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return cfg, fmt.Errorf("source: parsing config timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("LINKBACK_SOURCE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("LINKBACK_SOURCE_TOKEN"); v != "" {
		cfg.Token = v
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return cfg, nil
}

// DecodeFunc materializes the instances of one type from a raw collection
// payload. Decoders are registered per type; payload parsing stays outside
// the resolution core.
type DecodeFunc func(data []byte) ([]linkback.Instance, error)

// HTTP is a record source backed by a read-only JSON content API. It
// fetches the full collection of a type with a single GET; pagination and
// rate limiting are left to the API client or a wrapping transport.
type HTTP struct {
	cfg    Config
	client *http.Client
	log    *zap.Logger

	mu       sync.RWMutex
	decoders map[string]DecodeFunc
}

// HTTPOption configures an HTTP source.
type HTTPOption func(*HTTP)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTP) {
		s.client = c
	}
}

// WithHTTPLogger sets the logger used for fetch tracing.
func WithHTTPLogger(l *zap.Logger) HTTPOption {
	return func(s *HTTP) {
		s.log = l
	}
}

// NewHTTP returns an HTTP record source for the given configuration.
func NewHTTP(cfg Config, opts ...HTTPOption) *HTTP {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	s := &HTTP{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		log:      zap.NewNop(),
		decoders: make(map[string]DecodeFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterDecoder registers the payload decoder for a type. Fetching a type
// without a registered decoder fails.
func (s *HTTP) RegisterDecoder(typeName string, fn DecodeFunc) {
	s.mu.Lock()
	s.decoders[typeName] = fn
	s.mu.Unlock()
}

// All implements linkback.Source.
func (s *HTTP) All(ctx context.Context, typeName string) ([]linkback.Instance, error) {
	s.mu.RLock()
	decode, ok := s.decoders[typeName]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("source: no decoder registered for type %q", typeName)
	}
	url := strings.TrimRight(s.cfg.BaseURL, "/") + "/" + s.collectionPath(typeName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("source: building request for %q: %w", typeName, err)
	}
	req.Header.Set("Accept", "application/json")
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source: fetching %q: %w", typeName, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source: fetching %q: unexpected status %d", typeName, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("source: reading %q response: %w", typeName, err)
	}
	instances, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("source: decoding %q response: %w", typeName, err)
	}
	s.log.Debug("fetched collection",
		zap.String("type", typeName),
		zap.String("url", url),
		zap.Int("records", len(instances)),
	)
	return instances, nil
}

func (s *HTTP) collectionPath(typeName string) string {
	if p, ok := s.cfg.Paths[typeName]; ok {
		return strings.TrimLeft(p, "/")
	}
	return inflect.Pluralize(inflect.Underscore(typeName))
}

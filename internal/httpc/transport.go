package httpc

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/loykin/graphcall/internal/common"
	"github.com/loykin/graphcall/internal/graph"
)

const (
	DefaultBaseURL  = "https://graph.facebook.com"
	DefaultBetaURL  = "https://graph.beta.facebook.com"
	DefaultVideoURL = "https://graph-video.facebook.com"
	DefaultTimeout  = 30 * time.Second
)

// Config describes the HTTP side of a Graph client.
type Config struct {
	BaseURL  string
	BetaURL  string
	VideoURL string
	Timeout  time.Duration
	TLS      *tls.Config
	// Headers are sent with every request.
	Headers map[string]string
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(c.BetaURL) == "" {
		c.BetaURL = DefaultBetaURL
	}
	if strings.TrimSpace(c.VideoURL) == "" {
		c.VideoURL = DefaultVideoURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	c.BetaURL = strings.TrimRight(c.BetaURL, "/")
	c.VideoURL = strings.TrimRight(c.VideoURL, "/")
}

// Transport implements graph.Transport on top of resty.
type Transport struct {
	cfg    Config
	client *resty.Client
	logger *common.Logger
}

var _ graph.Transport = (*Transport)(nil)

// NewTransport builds a Transport. Zero fields in cfg take the defaults.
func NewTransport(cfg Config) *Transport {
	cfg.applyDefaults()
	h := Httpc{TlsConfig: cfg.TLS, Timeout: cfg.Timeout}
	client := h.New()
	if len(cfg.Headers) > 0 {
		client.SetHeaders(cfg.Headers)
	}
	return &Transport{
		cfg:    cfg,
		client: client,
		logger: common.GetLogger().WithComponent("httpc"),
	}
}

// Client exposes the underlying resty client.
func (t *Transport) Client() *resty.Client { return t.client }

// URL returns the absolute URL for path under the host selected by opts.
func (t *Transport) URL(path string, opts RequestOptions) string {
	base := t.cfg.BaseURL
	switch {
	case opts.Video:
		base = t.cfg.VideoURL
	case opts.Beta:
		base = t.cfg.BetaURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// MakeRequest sends one Graph request. Status codes are returned as they are;
// only network and encoding failures produce an error.
func (t *Transport) MakeRequest(ctx context.Context, path string, params graph.Params, verb string, httpOptions map[string]any) (*graph.Response, error) {
	opts, err := DecodeRequestOptions(httpOptions)
	if err != nil {
		return nil, err
	}
	values, err := EncodeParams(params)
	if err != nil {
		return nil, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	method := strings.ToUpper(strings.TrimSpace(verb))
	url := t.URL(path, opts)
	req := t.client.R().SetContext(ctx)
	if len(opts.Headers) > 0 {
		req.SetHeaders(opts.Headers)
	}

	switch method {
	case http.MethodGet, http.MethodDelete:
		req.SetQueryParams(values)
	case http.MethodPost, http.MethodPut:
		req.SetFormData(values)
	default:
		return nil, fmt.Errorf("httpc: unsupported verb: %s", verb)
	}

	// request_id only correlates the log lines of one round trip
	logger := t.logger.WithRequest(method, url).WithRequestID(uuid.NewString())
	logger.Debug("sending graph request", "param_count", len(values))

	resp, err := req.Execute(method, url)
	if err != nil {
		logger.Error("graph request failed", "error", err)
		return nil, err
	}

	logger.Debug("received graph response", "status_code", resp.StatusCode(), "response_size", len(resp.Body()))
	return graph.NewResponse(resp.StatusCode(), string(resp.Body()), resp.Header()), nil
}

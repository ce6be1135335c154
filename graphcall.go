// Package graphcall is a thin client for the Graph HTTP API.
//
// A call goes through three steps: the path and parameters are normalized,
// credentials are injected, and the transport's raw response is interpreted
// into a decoded value, a selected response component or an error.
package graphcall

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/loykin/graphcall/internal/auth"
	"github.com/loykin/graphcall/internal/common"
	"github.com/loykin/graphcall/internal/graph"
	"github.com/loykin/graphcall/internal/httpc"
	"github.com/loykin/graphcall/internal/retry"
)

// Re-export commonly used types for public API

type (
	API           = graph.API
	APIOption     = graph.APIOption
	Params        = graph.Params
	Response      = graph.Response
	Transport     = graph.Transport
	TransportFunc = graph.TransportFunc
	Component     = graph.Component
	CallOptions   = graph.CallOptions
	Option        = graph.Option
	APIError      = graph.APIError
	ParseError    = graph.ParseError
	Credentials   = auth.Credentials
	HTTPConfig    = httpc.Config
	HTTPTransport = httpc.Transport
	RetryConfig   = retry.Config
)

var (
	ComponentDefault  = graph.ComponentDefault
	ComponentResponse = graph.ComponentResponse
	ErrMalformedJSON  = graph.ErrMalformedJSON
)

// New returns an API using transport. Either credential may be empty.
func New(transport Transport, accessToken, appSecret string, opts ...APIOption) *API {
	return graph.New(transport, accessToken, appSecret, opts...)
}

// NewResponse builds a Response, mainly for custom transports and tests.
func NewResponse(status int, body string, headers http.Header) *Response {
	return graph.NewResponse(status, body, headers)
}

// NewHTTPTransport returns the default resty-backed transport.
func NewHTTPTransport(cfg HTTPConfig) *HTTPTransport { return httpc.NewTransport(cfg) }

// ClientConfig bundles what NewClient needs.
type ClientConfig struct {
	Credentials Credentials
	BaseURL     string
	Timeout     time.Duration
	TLS         *tls.Config
	// Retry wraps the transport with retries when set.
	Retry *RetryConfig
}

// DefaultRetryConfig returns the retry settings used by the CLI.
func DefaultRetryConfig() *RetryConfig { return retry.DefaultRetryConfig() }

// NewClient builds an HTTP transport, resolves the credentials (acquiring an
// app token when only client credentials are configured) and returns the API.
func NewClient(ctx context.Context, cfg ClientConfig, opts ...APIOption) (*API, error) {
	tr := httpc.NewTransport(httpc.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout, TLS: cfg.TLS})
	token, err := cfg.Credentials.Resolve(ctx, tr.Client().GetClient())
	if err != nil {
		return nil, err
	}
	var transport Transport = tr
	if cfg.Retry != nil {
		transport = retry.NewTransport(tr, cfg.Retry)
	}
	return graph.New(transport, token, cfg.Credentials.AppSecret, opts...), nil
}

func ComponentField(name string) Component        { return graph.ComponentField(name) }
func ParseComponent(s string) Component           { return graph.ParseComponent(s) }
func WithComponent(c Component) Option            { return graph.WithComponent(c) }
func WithAppsecretProof(enabled bool) Option      { return graph.WithAppsecretProof(enabled) }
func WithErrorCallback(fn func(*Response)) Option { return graph.WithErrorCallback(fn) }
func WithHTTPOptions(o map[string]any) Option     { return graph.WithHTTPOptions(o) }
func WithLogger(l *Logger) APIOption              { return graph.WithLogger(l) }

// AppsecretProof returns hex(HMAC-SHA256(appSecret, accessToken)).
func AppsecretProof(appSecret, accessToken string) string {
	return graph.AppsecretProof(appSecret, accessToken)
}

// IsServerError reports whether err is a 5xx APIError.
func IsServerError(err error) bool { return graph.IsServerError(err) }

// Logging re-exports

type (
	Logger   = common.Logger
	LogLevel = common.LogLevel
)

const (
	LogLevelError = common.LogLevelError
	LogLevelWarn  = common.LogLevelWarn
	LogLevelInfo  = common.LogLevelInfo
	LogLevelDebug = common.LogLevelDebug
)

func NewLogger(level LogLevel) *Logger      { return common.NewLogger(level) }
func NewJSONLogger(level LogLevel) *Logger  { return common.NewJSONLogger(level) }
func NewColorLogger(level LogLevel) *Logger { return common.NewColorLogger(level) }
func SetDefaultLogger(l *Logger)            { common.SetDefaultLogger(l) }
func GetLogger() *Logger                    { return common.GetLogger() }
func EnableMasking(enabled bool)            { common.EnableMasking(enabled) }

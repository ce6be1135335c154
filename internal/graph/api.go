package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/loykin/graphcall/internal/common"
)

// DefaultVerb is used when Call is given an empty verb.
const DefaultVerb = "get"

// API is a Graph client bound to one set of credentials. Credentials never
// change after New, so an API may be shared between goroutines.
type API struct {
	accessToken string
	appSecret   string
	transport   Transport
	logger      *common.Logger
}

// APIOption configures an API at construction time.
type APIOption func(*API)

// WithLogger overrides the logger used for call tracing.
func WithLogger(l *common.Logger) APIOption {
	return func(a *API) {
		if l != nil {
			a.logger = l
		}
	}
}

// New returns an API that sends requests through transport. Either credential
// may be empty.
func New(transport Transport, accessToken, appSecret string, opts ...APIOption) *API {
	a := &API{
		accessToken: accessToken,
		appSecret:   appSecret,
		transport:   transport,
		logger:      common.GetLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	a.logger = a.logger.WithComponent("graph")
	return a
}

// AccessToken returns the token the API was built with.
func (a *API) AccessToken() string { return a.accessToken }

// HasAppSecret reports whether an app secret is configured.
func (a *API) HasAppSecret() bool { return a.appSecret != "" }

// Prepare returns the path and parameters Call would hand to the transport.
func (a *API) Prepare(path string, params Params, opts CallOptions) (string, Params) {
	path, params = NormalizeArgs(path, params)
	params = InjectAuth(params, a.accessToken, a.appSecret, opts.AppsecretProof)
	return path, params
}

// Call performs one Graph request.
//
// The path is normalized, list parameters are comma-joined, credentials are
// injected and the transport response is interpreted according to opts.
func (a *API) Call(ctx context.Context, path string, params Params, verb string, opts ...Option) (any, error) {
	if a.transport == nil {
		return nil, errors.New("graph: no transport configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	o := buildCallOptions(opts)

	verb = strings.ToLower(strings.TrimSpace(verb))
	if verb == "" {
		verb = DefaultVerb
	}

	reqPath, reqParams := a.Prepare(path, params, o)
	logger := a.logger.WithPath(reqPath)
	logger.Debug("graph call",
		"verb", verb,
		"params", map[string]any(reqParams),
		"http_component", o.Component.String(),
		"appsecret_proof_requested", o.AppsecretProof)

	resp, err := a.transport.MakeRequest(ctx, reqPath, reqParams, verb, o.HTTPOptions)
	if err != nil {
		logger.Error("graph transport failed", "error", err, "verb", verb)
		return nil, fmt.Errorf("graph: %s %s: %w", verb, reqPath, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("graph: %s %s: transport returned no response", verb, reqPath)
	}

	logger.Debug("graph response", "status", resp.Status, "body_size", len(resp.Body))
	result, err := Interpret(resp, o)
	if err != nil {
		logger.Warn("graph call failed", "status", resp.Status, "error", err)
		return nil, err
	}
	return result, nil
}

// Get is Call with the "get" verb.
func (a *API) Get(ctx context.Context, path string, params Params, opts ...Option) (any, error) {
	return a.Call(ctx, path, params, "get", opts...)
}

// Post is Call with the "post" verb.
func (a *API) Post(ctx context.Context, path string, params Params, opts ...Option) (any, error) {
	return a.Call(ctx, path, params, "post", opts...)
}

// Delete is Call with the "delete" verb.
func (a *API) Delete(ctx context.Context, path string, params Params, opts ...Option) (any, error) {
	return a.Call(ctx, path, params, "delete", opts...)
}

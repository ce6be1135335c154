package graph

// CallOptions tunes a single Call.
type CallOptions struct {
	// Component selects what Call returns. Defaults to the decoded body.
	Component Component
	// AppsecretProof adds appsecret_proof when both credentials are present.
	AppsecretProof bool
	// ErrorCallback runs once with the raw response before Call returns.
	ErrorCallback func(*Response)
	// HTTPOptions are handed to the transport untouched.
	HTTPOptions map[string]any
}

// Option configures CallOptions.
type Option func(*CallOptions)

func WithComponent(c Component) Option {
	return func(o *CallOptions) { o.Component = c }
}

func WithAppsecretProof(enabled bool) Option {
	return func(o *CallOptions) { o.AppsecretProof = enabled }
}

// WithErrorCallback registers fn to inspect the raw response. fn must not block.
func WithErrorCallback(fn func(*Response)) Option {
	return func(o *CallOptions) { o.ErrorCallback = fn }
}

func WithHTTPOptions(opts map[string]any) Option {
	return func(o *CallOptions) { o.HTTPOptions = opts }
}

func buildCallOptions(opts []Option) CallOptions {
	var o CallOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.HTTPOptions == nil {
		o.HTTPOptions = map[string]any{}
	}
	return o
}

package httpc

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// RequestOptions are the per-call HTTP options a graph call may carry.
type RequestOptions struct {
	// Beta routes the call to the beta tier.
	Beta bool `mapstructure:"beta"`
	// Video routes the call to the video upload host.
	Video bool `mapstructure:"video"`
	// Timeout bounds this call only; zero keeps the client timeout.
	Timeout time.Duration `mapstructure:"timeout"`
	// Headers are added to the request.
	Headers map[string]string `mapstructure:"headers"`
}

// DecodeRequestOptions decodes a loose option map. Durations may be given as
// strings ("5s") or nanosecond integers. Unknown keys are an error.
func DecodeRequestOptions(m map[string]any) (RequestOptions, error) {
	var out RequestOptions
	if len(m) == 0 {
		return out, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(m); err != nil {
		return out, fmt.Errorf("http options: %w", err)
	}
	return out, nil
}

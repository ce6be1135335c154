package httpc

import (
	"crypto/tls"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type Httpc struct {
	TlsConfig *tls.Config
	Timeout   time.Duration
}

// New returns a resty.Client configured according to the receiver's TLS settings.
// A zero MinVersion defaults to TLS1.3 unless MaxVersion caps below it, in
// which case the minimum is pinned to MaxVersion.
func (h *Httpc) New() *resty.Client {
	c := resty.New()
	if h.Timeout > 0 {
		c.SetTimeout(h.Timeout)
	}
	cfg := h.TlsConfig
	if cfg == nil {
		return c
	}
	cfg = cfg.Clone()
	if cfg.MinVersion == 0 {
		cfg.MinVersion = defaultMinVersion(cfg.MaxVersion)
	}
	c.SetTLSClientConfig(cfg)
	return c
}

func defaultMinVersion(maxVersion uint16) uint16 {
	if maxVersion == 0 || maxVersion >= tls.VersionTLS13 {
		return tls.VersionTLS13
	}
	return maxVersion
}

// ParseTLSVersion maps "1.2", "tls1.2", "TLS12" and the like to a crypto/tls
// version constant. Unknown input yields 0.
func ParseTLSVersion(s string) uint16 {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "tls")
	v = strings.TrimPrefix(v, "v")
	v = strings.ReplaceAll(v, "_", ".")
	switch v {
	case "1.0", "10":
		return tls.VersionTLS10
	case "1.1", "11":
		return tls.VersionTLS11
	case "1.2", "12":
		return tls.VersionTLS12
	case "1.3", "13":
		return tls.VersionTLS13
	default:
		return 0
	}
}

// TLSConfig builds a tls.Config from user facing settings. It returns nil when
// every setting is at its default.
func TLSConfig(insecure bool, minVersion, maxVersion string) *tls.Config {
	minV := ParseTLSVersion(minVersion)
	maxV := ParseTLSVersion(maxVersion)
	if !insecure && minV == 0 && maxV == 0 {
		return nil
	}
	// #nosec G402 -- insecure mode is an explicit user opt-in
	return &tls.Config{InsecureSkipVerify: insecure, MinVersion: minV, MaxVersion: maxV}
}

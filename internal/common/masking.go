package common

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// MaskedValue replaces any value recognised as sensitive.
const MaskedValue = "***MASKED***"

// SensitivePattern represents a pattern to detect and mask sensitive information
type SensitivePattern struct {
	Name        string         // Pattern name (e.g., "access_token", "app_secret")
	Regex       *regexp.Regexp // Regular expression to match sensitive data
	Replacement string         // Replacement string
	Keys        []string       // Specific keys to mask (case-insensitive)
}

// DefaultSensitivePatterns covers the credentials a Graph client handles.
var DefaultSensitivePatterns = []SensitivePattern{
	{
		// access_token=... and appsecret_proof=... inside URLs or form bodies
		Name:        "query_credential",
		Regex:       regexp.MustCompile(`(?i)\b(access_token|appsecret_proof|client_secret)=([^&\s"']+)`),
		Replacement: "${1}=" + MaskedValue,
		Keys:        []string{},
	},
	{
		Name:        "token",
		Regex:       regexp.MustCompile(`(?i)"(token|access[_-]?token|appsecret[_-]?proof)"\s*:\s*"([^"]*)"`),
		Replacement: `"${1}":"` + MaskedValue + `"`,
		Keys:        []string{"token", "access_token", "access-token", "appsecret_proof", "appsecret-proof"},
	},
	{
		Name:        "secret",
		Regex:       regexp.MustCompile(`(?i)"(secret|app[_-]?secret|client[_-]?secret)"\s*:\s*"([^"]*)"`),
		Replacement: `"${1}":"` + MaskedValue + `"`,
		Keys:        []string{"secret", "app_secret", "app-secret", "client_secret", "client-secret"},
	},
	{
		Name:        "authorization",
		Regex:       regexp.MustCompile(`(?i)"(authorization)"\s*:\s*"([^"]*)"`),
		Replacement: `"${1}":"` + MaskedValue + `"`,
		Keys:        []string{"authorization"},
	},
	{
		Name:        "bearer_token",
		Regex:       regexp.MustCompile(`(?i)(Bearer|OAuth)\s+[A-Za-z0-9\-._~+/|]+=*`),
		Replacement: "${1} " + MaskedValue,
		Keys:        []string{},
	},
}

// Masker handles masking of sensitive information in logs
type Masker struct {
	patterns []SensitivePattern
	enabled  bool
}

// NewMasker creates a new masker with default patterns
func NewMasker() *Masker {
	patterns := make([]SensitivePattern, len(DefaultSensitivePatterns))
	copy(patterns, DefaultSensitivePatterns)
	return &Masker{
		patterns: patterns,
		enabled:  true,
	}
}

// NewMaskerWithPatterns creates a new masker with custom patterns
func NewMaskerWithPatterns(patterns []SensitivePattern) *Masker {
	return &Masker{
		patterns: patterns,
		enabled:  true,
	}
}

// SetEnabled enables or disables masking
func (m *Masker) SetEnabled(enabled bool) {
	m.enabled = enabled
}

// IsEnabled returns whether masking is enabled
func (m *Masker) IsEnabled() bool {
	return m.enabled
}

// AddPattern adds a new sensitive pattern. A pattern with only Keys gets a
// key=value regex compiled from them.
func (m *Masker) AddPattern(pattern SensitivePattern) {
	if pattern.Regex == nil && len(pattern.Keys) > 0 {
		keyPattern := strings.Join(pattern.Keys, "|")
		regexPattern := fmt.Sprintf("(?i)\\b(%s)\\s*[:=]\\s*['\"]?([^'\",\\s}\\]&]+)['\"]?", keyPattern)
		pattern.Regex = regexp.MustCompile(regexPattern)
		if pattern.Replacement == "" {
			pattern.Replacement = "$1=" + MaskedValue
		}
	}
	m.patterns = append(m.patterns, pattern)
}

// MaskString masks sensitive information in a string
func (m *Masker) MaskString(input string) string {
	if !m.enabled {
		return input
	}

	result := input
	for _, pattern := range m.patterns {
		if pattern.Regex == nil {
			continue
		}
		result = pattern.Regex.ReplaceAllString(result, pattern.Replacement)
	}
	return result
}

// IsSensitiveKey reports whether key names a credential.
func (m *Masker) IsSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(strings.TrimSpace(key))
	for _, pattern := range m.patterns {
		for _, sensitiveKey := range pattern.Keys {
			if lowerKey == strings.ToLower(sensitiveKey) {
				return true
			}
		}
	}
	return false
}

// MaskValue masks sensitive information based on key-value context.
// Non-string values under non-sensitive keys are returned unchanged.
func (m *Masker) MaskValue(key string, value interface{}) interface{} {
	if !m.enabled {
		return value
	}
	if m.IsSensitiveKey(key) {
		return MaskedValue
	}
	switch v := value.(type) {
	case string:
		return m.MaskString(v)
	case []byte:
		return m.MaskString(string(v))
	case error:
		return m.MaskString(v.Error())
	case map[string]any:
		return m.MaskMap(v)
	default:
		return value
	}
}

// MaskMap returns a copy of params with sensitive entries masked.
func (m *Masker) MaskMap(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = m.MaskValue(k, v)
	}
	return out
}

// MaskKeyValuePairs masks sensitive information in key-value pairs
func (m *Masker) MaskKeyValuePairs(pairs ...any) []any {
	if !m.enabled {
		return pairs
	}

	result := make([]any, len(pairs))
	for i := 0; i < len(pairs); i += 2 {
		if i+1 < len(pairs) {
			key := pairs[i]
			value := pairs[i+1]

			if keyStr, ok := key.(string); ok {
				result[i] = keyStr
				result[i+1] = m.MaskValue(keyStr, value)
			} else {
				result[i] = key
				result[i+1] = value
			}
		} else {
			result[i] = pairs[i]
		}
	}
	return result
}

// MaskAttr masks a single slog attribute, keeping its kind when nothing changes.
func (m *Masker) MaskAttr(a slog.Attr) slog.Attr {
	if !m.enabled {
		return a
	}
	if m.IsSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskedValue)
	}
	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, m.MaskString(a.Value.String()))
	case slog.KindAny:
		masked := m.MaskValue(a.Key, a.Value.Any())
		return slog.Any(a.Key, masked)
	default:
		return a
	}
}

// Global masker instance
var globalMasker = NewMasker()

// SetGlobalMasker sets the global masker instance
func SetGlobalMasker(masker *Masker) {
	globalMasker = masker
}

// GetGlobalMasker returns the global masker instance
func GetGlobalMasker() *Masker {
	return globalMasker
}

// MaskSensitiveData masks sensitive data using the global masker
func MaskSensitiveData(input string) string {
	return globalMasker.MaskString(input)
}

// EnableMasking enables/disables global masking
func EnableMasking(enabled bool) {
	globalMasker.SetEnabled(enabled)
}

// IsMaskingEnabled returns whether global masking is enabled
func IsMaskingEnabled() bool {
	return globalMasker.IsEnabled()
}

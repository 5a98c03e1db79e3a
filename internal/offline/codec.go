package offline

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
)

// Cached payloads are not stored as plain JSON: the value is percent-escaped
// and then run through base64 so casual inspection of the device store does
// not expose sale data. This is obfuscation for its own store format, not
// encryption; the only compatibility requirement is with itself across
// versions, which is why Decode keeps a plain-JSON fallback for values
// written before the transform existed.

// Encode serializes v and applies the obfuscating transform.
func Encode(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}
	escaped := url.QueryEscape(string(data))
	return base64.StdEncoding.EncodeToString([]byte(escaped)), nil
}

// Decode reverses Encode into v. If the transform cannot be reversed the
// input is retried as plain JSON; if that also fails an error is returned and
// v is left untouched. Callers degrade to an empty value instead of failing.
func Decode(s string, v interface{}) error {
	if raw, err := base64.StdEncoding.DecodeString(s); err == nil {
		if unescaped, err := url.QueryUnescape(string(raw)); err == nil {
			if json.Unmarshal([]byte(unescaped), v) == nil {
				return nil
			}
		}
	}

	// Fallback: plain JSON written before the transform was introduced.
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

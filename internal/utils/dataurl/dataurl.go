package dataurl

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrNotDataURL = errors.New("not a base64 data URL")

// Decode splits a "data:<mime>;base64,<payload>" string into its declared
// MIME type and decoded bytes. A bare base64 payload is accepted with an
// empty MIME type.
func Decode(s string) (string, []byte, error) {
	s = strings.TrimSpace(s)
	mime := ""
	payload := s
	if strings.HasPrefix(s, "data:") {
		header, data, ok := strings.Cut(s[len("data:"):], ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return "", nil, ErrNotDataURL
		}
		mime = strings.TrimSuffix(header, ";base64")
		if i := strings.IndexByte(mime, ';'); i >= 0 {
			mime = mime[:i]
		}
		payload = data
	}
	if payload == "" {
		return "", nil, ErrNotDataURL
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return "", nil, ErrNotDataURL
		}
	}
	return mime, decoded, nil
}

// IsRemote reports whether s is an http(s) URL rather than inline data.
func IsRemote(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

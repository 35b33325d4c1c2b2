package payload

import "strings"

// URLRequest encodes a web link.
type URLRequest struct {
	URL string `json:"url"`
}

func (r URLRequest) Kind() Kind { return KindURL }

// Format prepends https:// when no http(s) scheme is present, including for
// the empty string.
func (r URLRequest) Format() (string, error) {
	if strings.HasPrefix(r.URL, "http://") || strings.HasPrefix(r.URL, "https://") {
		return r.URL, nil
	}
	return "https://" + r.URL, nil
}

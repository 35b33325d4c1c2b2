package payload

import (
	"strings"

	"github.com/prasetyowira/qr-utils/domain/qrerr"
)

// Security is the WiFi authentication type.
type Security string

const (
	SecurityWPA    Security = "WPA"
	SecurityWEP    Security = "WEP"
	SecurityNoPass Security = "nopass"
)

// ParseSecurity accepts WPA, WEP and nopass in any case. Empty means WPA.
func ParseSecurity(s string) (Security, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wpa":
		return SecurityWPA, nil
	case "wep":
		return SecurityWEP, nil
	case "nopass", "none":
		return SecurityNoPass, nil
	}
	return "", qrerr.Validation(string(KindWiFi), "unsupported security type %q", s)
}

// WiFiRequest holds network credentials.
type WiFiRequest struct {
	SSID     string   `json:"ssid"`
	Password string   `json:"password"`
	Security Security `json:"security,omitempty"`
	Hidden   bool     `json:"hidden,omitempty"`
}

func (r WiFiRequest) Kind() Kind { return KindWiFi }

// Format always emits the H: field, as H:false for visible networks.
func (r WiFiRequest) Format() (string, error) {
	if err := required(KindWiFi, "ssid", r.SSID); err != nil {
		return "", err
	}
	security, err := ParseSecurity(string(r.Security))
	if err != nil {
		return "", err
	}
	if security != SecurityNoPass {
		if err := required(KindWiFi, "password", r.Password); err != nil {
			return "", err
		}
	}

	hidden := "false"
	if r.Hidden {
		hidden = "true"
	}

	var b strings.Builder
	b.WriteString("WIFI:T:")
	b.WriteString(string(security))
	b.WriteString(";S:")
	b.WriteString(EscapeWiFi(r.SSID))
	b.WriteString(";P:")
	b.WriteString(EscapeWiFi(r.Password))
	b.WriteString(";H:")
	b.WriteString(hidden)
	b.WriteString(";;")
	return b.String(), nil
}

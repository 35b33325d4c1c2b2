// Package payload turns structured requests into the text protocols encoded in
// QR symbols: vCard, WIFI:, geo:, mailto:, tel:, SMSTO:, VEVENT and payment URIs.
//
// Every formatter is a pure function of its request. Nothing here performs I/O.
package payload

import (
	"strings"

	"github.com/prasetyowira/qr-utils/domain/qrerr"
)

// Kind tags a payload format.
type Kind string

const (
	KindURL      Kind = "url"
	KindVCard    Kind = "vcard"
	KindWiFi     Kind = "wifi"
	KindSMS      Kind = "sms"
	KindEmail    Kind = "email"
	KindPhone    Kind = "phone"
	KindText     Kind = "text"
	KindLocation Kind = "location"
	KindEvent    Kind = "event"
	KindWhatsApp Kind = "whatsapp"
	KindPayment  Kind = "payment"
)

// Kinds lists every supported kind in CLI order.
var Kinds = []Kind{
	KindURL, KindVCard, KindWiFi, KindSMS, KindEmail, KindPhone,
	KindText, KindLocation, KindEvent, KindWhatsApp, KindPayment,
}

func (k Kind) String() string { return string(k) }

// ParseKind resolves a case-insensitive kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", qrerr.Validation("ParseKind", "unknown payload kind %q", s)
}

// Request is a structured payload that knows how to render itself as text.
type Request interface {
	Kind() Kind
	Format() (string, error)
}

// New returns an empty request of the given kind, ready to be decoded into.
func New(kind Kind) (Request, error) {
	switch kind {
	case KindURL:
		return &URLRequest{}, nil
	case KindVCard:
		return &VCardRequest{}, nil
	case KindWiFi:
		return &WiFiRequest{}, nil
	case KindSMS:
		return &SMSRequest{}, nil
	case KindEmail:
		return &EmailRequest{}, nil
	case KindPhone:
		return &PhoneRequest{}, nil
	case KindText:
		return &TextRequest{}, nil
	case KindLocation:
		return &LocationRequest{}, nil
	case KindEvent:
		return &EventRequest{}, nil
	case KindWhatsApp:
		return &WhatsAppRequest{}, nil
	case KindPayment:
		return &PaymentRequest{}, nil
	}
	return nil, qrerr.Validation("New", "unknown payload kind %q", string(kind))
}

func required(kind Kind, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return qrerr.Validation(string(kind), "%s is required", field)
	}
	return nil
}

package payload

import "github.com/prasetyowira/qr-utils/domain/qrerr"

// SMSRequest pre-fills a text message.
type SMSRequest struct {
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message,omitempty"`
}

func (r SMSRequest) Kind() Kind { return KindSMS }

func (r SMSRequest) Format() (string, error) {
	phone, err := normalizePhone(KindSMS, r.PhoneNumber, false)
	if err != nil {
		return "", err
	}
	if r.Message == "" {
		return "SMSTO:" + phone, nil
	}
	return "SMSTO:" + phone + ":" + r.Message, nil
}

// EmailRequest pre-fills a mail draft.
type EmailRequest struct {
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
}

func (r EmailRequest) Kind() Kind { return KindEmail }

func (r EmailRequest) Format() (string, error) {
	if err := required(KindEmail, "email", r.Email); err != nil {
		return "", err
	}
	var params []string
	if r.Subject != "" {
		params = append(params, "subject="+PercentEncode(r.Subject))
	}
	if r.Body != "" {
		params = append(params, "body="+PercentEncode(r.Body))
	}
	return joinQuery("mailto:"+r.Email, params), nil
}

// PhoneRequest dials a number.
type PhoneRequest struct {
	PhoneNumber string `json:"phone_number"`
}

func (r PhoneRequest) Kind() Kind { return KindPhone }

// Format keeps digits and a single leading '+'.
func (r PhoneRequest) Format() (string, error) {
	phone, err := normalizePhone(KindPhone, r.PhoneNumber, true)
	if err != nil {
		return "", err
	}
	return "tel:" + phone, nil
}

// WhatsAppRequest opens a chat through wa.me.
type WhatsAppRequest struct {
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message,omitempty"`
}

func (r WhatsAppRequest) Kind() Kind { return KindWhatsApp }

func (r WhatsAppRequest) Format() (string, error) {
	phone, err := normalizePhone(KindWhatsApp, r.PhoneNumber, false)
	if err != nil {
		return "", err
	}
	link := "https://wa.me/" + phone
	if r.Message != "" {
		link += "?text=" + PercentEncode(r.Message)
	}
	return link, nil
}

// normalizePhone strips formatting from a phone number. With keepPlus, a '+'
// survives only in front of the first digit.
func normalizePhone(kind Kind, raw string, keepPlus bool) (string, error) {
	if err := required(kind, "phone_number", raw); err != nil {
		return "", err
	}
	digits := digitsOnly(raw)
	if digits == "" {
		return "", qrerr.Validation(string(kind), "phone_number %q contains no digits", raw)
	}
	if keepPlus && hasLeadingPlus(raw) {
		return "+" + digits, nil
	}
	return digits, nil
}

func hasLeadingPlus(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			return true
		case '0' <= c && c <= '9':
			return false
		}
	}
	return false
}

package payload

import "strings"

// DefaultVCardVersion is used when a request leaves Version empty.
const DefaultVCardVersion = "3.0"

// Address is the work address of a contact.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

func (a *Address) empty() bool {
	return a == nil || (a.Street == "" && a.City == "" && a.State == "" && a.PostalCode == "" && a.Country == "")
}

// VCardRequest describes a contact card.
type VCardRequest struct {
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Phone        string   `json:"phone,omitempty"`
	Email        string   `json:"email,omitempty"`
	Organization string   `json:"organization,omitempty"`
	Title        string   `json:"title,omitempty"`
	URL          string   `json:"url,omitempty"`
	Address      *Address `json:"address,omitempty"`
	Birthday     string   `json:"birthday,omitempty"` // YYYYMMDD
	Note         string   `json:"note,omitempty"`
	Version      string   `json:"version,omitempty"`
}

func (r VCardRequest) Kind() Kind { return KindVCard }

// Format emits one property per line. Optional properties are left out
// entirely when empty.
func (r VCardRequest) Format() (string, error) {
	if err := required(KindVCard, "first_name", r.FirstName); err != nil {
		return "", err
	}
	if err := required(KindVCard, "last_name", r.LastName); err != nil {
		return "", err
	}

	version := r.Version
	if version == "" {
		version = DefaultVCardVersion
	}

	lines := []string{
		"BEGIN:VCARD",
		"VERSION:" + version,
		"N:" + r.LastName + ";" + r.FirstName,
		"FN:" + r.FirstName + " " + r.LastName,
	}

	optional := []struct{ prop, value string }{
		{"ORG", r.Organization},
		{"TITLE", r.Title},
		{"TEL", r.Phone},
		{"EMAIL", r.Email},
		{"URL", r.URL},
	}
	for _, o := range optional {
		if o.value != "" {
			lines = append(lines, o.prop+":"+o.value)
		}
	}

	if !r.Address.empty() {
		a := r.Address
		lines = append(lines, "ADR;TYPE=work:;;"+strings.Join([]string{a.Street, a.City, a.State, a.PostalCode, a.Country}, ";"))
	}
	if r.Birthday != "" {
		lines = append(lines, "BDAY:"+r.Birthday)
	}
	if r.Note != "" {
		lines = append(lines, "NOTE:"+r.Note)
	}

	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\n"), nil
}

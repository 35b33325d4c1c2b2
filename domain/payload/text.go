package payload

// TextRequest encodes arbitrary text as-is.
type TextRequest struct {
	Text string `json:"text"`
}

func (r TextRequest) Kind() Kind { return KindText }

func (r TextRequest) Format() (string, error) {
	if r.Text == "" {
		return "", required(KindText, "text", r.Text)
	}
	return r.Text, nil
}

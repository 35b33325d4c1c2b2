package payload

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency applies to PayPal links that carry an amount but no currency.
const DefaultCurrency = "USD"

// PaymentRequest describes a payment link. Amount is optional; a zero amount
// is treated as absent.
type PaymentRequest struct {
	PaymentType string           `json:"payment_type"`
	Recipient   string           `json:"recipient"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Currency    string           `json:"currency,omitempty"`
	Message     string           `json:"message,omitempty"`
}

func (r PaymentRequest) Kind() Kind { return KindPayment }

// Format dispatches on the lower-cased payment type. bitcoin and ethereum have
// their own URI schemes, paypal becomes a paypal.me link and anything else
// falls back to "<type>:<recipient>" with amount/message parameters.
func (r PaymentRequest) Format() (string, error) {
	if err := required(KindPayment, "payment_type", r.PaymentType); err != nil {
		return "", err
	}
	if err := required(KindPayment, "recipient", r.Recipient); err != nil {
		return "", err
	}

	paymentType := strings.ToLower(strings.TrimSpace(r.PaymentType))
	switch paymentType {
	case "bitcoin":
		return r.cryptoURI("bitcoin", "amount"), nil
	case "ethereum":
		return r.cryptoURI("ethereum", "value"), nil
	case "paypal":
		return r.paypalURL(), nil
	default:
		return r.cryptoURI(paymentType, "amount"), nil
	}
}

func (r PaymentRequest) hasAmount() bool {
	return r.Amount != nil && !r.Amount.IsZero()
}

// amountString keeps the scale the amount was given with, so 10.50 stays 10.50.
func (r PaymentRequest) amountString() string {
	if exp := r.Amount.Exponent(); exp < 0 {
		return r.Amount.StringFixed(-exp)
	}
	return r.Amount.String()
}

func (r PaymentRequest) cryptoURI(scheme, amountParam string) string {
	var params []string
	if r.hasAmount() {
		params = append(params, amountParam+"="+r.amountString())
	}
	if r.Message != "" {
		params = append(params, "message="+PercentEncode(r.Message))
	}
	return joinQuery(scheme+":"+r.Recipient, params)
}

// paypalURL ignores Message; paypal.me links have no note parameter.
func (r PaymentRequest) paypalURL() string {
	link := "https://www.paypal.com/paypalme/" + r.Recipient
	if r.hasAmount() {
		currency := strings.ToUpper(r.Currency)
		if currency == "" {
			currency = DefaultCurrency
		}
		link += "/" + r.amountString() + currency
	}
	return link
}

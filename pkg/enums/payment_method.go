package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod is how the shopper intends to pay on delivery or online.
type PaymentMethod string

const (
	PaymentMethodPayPal    PaymentMethod = "PayPal"
	PaymentMethodPaytm     PaymentMethod = "Paytm"
	PaymentMethodGooglePay PaymentMethod = "Google Pay"
	PaymentMethodCOD       PaymentMethod = "COD"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodPayPal,
	PaymentMethodPaytm,
	PaymentMethodGooglePay,
	PaymentMethodCOD,
}

// String implements fmt.Stringer.
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PaymentMethod.
func (m PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod. An empty value
// selects cash on delivery.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return PaymentMethodCOD, nil
	}
	for _, candidate := range validPaymentMethods {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

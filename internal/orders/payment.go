package orders

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidPayment = errors.New("invalid payment details")

var (
	cardNumberRe = regexp.MustCompile(`^\d{16}$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe        = regexp.MustCompile(`^\d{3,4}$`)
)

// PaymentDetails is checked for shape only; nothing is charged.
type PaymentDetails struct {
	CardholderName string `json:"cardholder_name"`
	CardNumber     string `json:"card_number"`
	ExpiryDate     string `json:"expiry_date"`
	CVV            string `json:"cvv"`
}

func (p PaymentDetails) Validate() error {
	var problems []string
	if len(strings.TrimSpace(p.CardholderName)) < 2 {
		problems = append(problems, "name is too short")
	}
	if !cardNumberRe.MatchString(p.CardNumber) {
		problems = append(problems, "card number must be 16 digits")
	}
	if !expiryRe.MatchString(p.ExpiryDate) {
		problems = append(problems, "expiry date must be MM/YY")
	}
	if !cvvRe.MatchString(p.CVV) {
		problems = append(problems, "cvv must be 3 or 4 digits")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPayment, strings.Join(problems, "; "))
	}
	return nil
}

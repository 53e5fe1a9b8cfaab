package paymentform

import "strings"

const (
	cardDigits   = 16
	cardGroup    = 4
	expiryDigits = 4
	cvvDigits    = 3
)

// digitsOnly strips everything but ASCII digits and keeps at most limit of them
func digitsOnly(s string, limit int) string {
	var b strings.Builder
	for _, r := range s {
		if b.Len() == limit {
			break
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// FormatCardNumber normalizes raw card number input into space separated
// groups of four digits, at most 16 digits in total.
// "4111-1111 11111111" becomes "4111 1111 1111 1111".
func FormatCardNumber(input string) string {
	digits := digitsOnly(input, cardDigits)

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%cardGroup == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

// FormatExpiry normalizes expiry input to MM/YY. With fewer than three digits
// the input is still being typed and the digits are returned as they are.
// The month is not range checked here.
func FormatExpiry(input string) string {
	digits := digitsOnly(input, expiryDigits)
	if len(digits) < 3 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

// FormatCVV keeps the first three digits of the input
func FormatCVV(input string) string {
	return digitsOnly(input, cvvDigits)
}

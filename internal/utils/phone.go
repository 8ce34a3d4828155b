package utils

import "strings"

// NormalizeBRPhone turns a Brazilian phone number as typed by a customer
// into E.164 form: digits only, country code 55, leading '+'.
func NormalizeBRPhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	clean := digits.String()
	if clean == "" {
		return ""
	}
	if !strings.HasPrefix(clean, "55") {
		clean = "55" + clean
	}
	return "+" + clean
}

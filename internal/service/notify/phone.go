package notify

import "strings"

// NormalizePhone converts a stored phone number into international
// format. Already-international numbers ("+..." or "00...") pass through
// with only cosmetic cleanup; local numbers are combined with the
// client's country code, falling back to the cooperative default.
func NormalizePhone(phone, clientCountryCode, defaultCountryCode string) string {
	cleaned := stripPhoneFormatting(phone)
	if cleaned == "" {
		return ""
	}

	if strings.HasPrefix(cleaned, "+") {
		return cleaned
	}
	if strings.HasPrefix(cleaned, "00") {
		return "+" + cleaned[2:]
	}

	code := clientCountryCode
	if code == "" {
		code = defaultCountryCode
	}
	code = strings.TrimPrefix(stripPhoneFormatting(code), "+")

	local := strings.TrimLeft(cleaned, "0")
	if code == "" {
		return local
	}
	return "+" + code + local
}

// stripPhoneFormatting removes spaces, dashes and parentheses, keeping
// digits and a single leading plus sign.
func stripPhoneFormatting(phone string) string {
	phone = strings.TrimSpace(phone)

	var b strings.Builder
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

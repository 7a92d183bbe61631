package phone

// Normalize canonicalizes a phone number for the WhatsApp API: all
// non-digit characters are stripped, and a 10-digit national number gets
// the country code "1" prefixed. Anything else, including the empty
// string, passes through stripped but otherwise unchanged. Callers must
// drop empty results from recipient lists before dispatch.
func Normalize(raw string) string {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	if len(digits) == 10 {
		return "1" + string(digits)
	}
	return string(digits)
}

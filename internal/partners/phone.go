package partners

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tyrebase/tyrebase/internal/platform/httpx"
)

var tenDigits = regexp.MustCompile(`^\d{10}$`)

// NormalizePhone reduces a phone number to its canonical ten-digit local
// form. Non-digits are stripped, and a leading "38" country prefix is
// removed when it makes the number twelve digits long.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 12 && strings.HasPrefix(digits, "38") {
		digits = digits[2:]
	}
	if !tenDigits.MatchString(digits) {
		return "", fmt.Errorf("%w: phone must normalize to 10 digits, got %q", httpx.ErrValidation, digits)
	}
	return digits, nil
}

package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"listingsheet/internal/util"
)

const (
	WhatsAppBaseURL = "https://wa.me/"

	// Listing pages glue "Updated 2024" style counters onto the phone number.
	yearSuffixMin = 1950
	yearSuffixMax = 2025
)

// Pasted pages carry no-break and narrow spaces inside numbers.
var phonePrefixPattern = regexp.MustCompile(`^[+\d\s\p{Zs}-]*`)

// ExtractPhone returns the "+"-prefixed digits of the phone-like prefix of
// raw, or "" when there are none. A trailing four digit group in
// [1950, 2025] is removed even when it belongs to a real number.
func ExtractPhone(raw string) string {
	digits := util.DigitsOnly(phonePrefixPattern.FindString(raw))
	if len(digits) >= 4 {
		if n, err := strconv.Atoi(digits[len(digits)-4:]); err == nil && n >= yearSuffixMin && n <= yearSuffixMax {
			digits = digits[:len(digits)-4]
		}
	}
	if digits == "" {
		return ""
	}
	return "+" + digits
}

func WhatsAppLink(phone string) string {
	if !strings.HasPrefix(phone, "+") {
		return ""
	}
	return WhatsAppBaseURL + phone[1:]
}

// PhoneLooksValid reports whether libphonenumber accepts an extracted phone.
// Diagnostic only, extraction output never depends on it.
func PhoneLooksValid(phone string) bool {
	if !strings.HasPrefix(phone, "+") {
		return false
	}
	num, err := phonenumbers.Parse(phone, "")
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// CountSuspectPhones counts the non-empty phones PhoneLooksValid rejects.
func CountSuspectPhones(phones []string) int {
	n := 0
	for _, p := range phones {
		if p != "" && !PhoneLooksValid(p) {
			n++
		}
	}
	return n
}

package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var phoneRegions = []string{
	"US",
	"GB",
	"DE",
}

// NormalizePhone parses a phone number against the supported regions and
// returns it in E.164 form, or "" when it cannot be parsed.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	for _, region := range phoneRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil {
			continue
		}
		if phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return ""
}

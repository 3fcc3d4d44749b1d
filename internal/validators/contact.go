package validators

import "regexp"

var (
	// 13305-0513365-5 or the bare 13 digits.
	cnicRe  = regexp.MustCompile(`^(\d{5}-\d{7}-\d|\d{13})$`)
	phoneRe = regexp.MustCompile(`^\+?\d[\d\- ]{6,19}$`)
)

func IsValidCNIC(cnic string) bool {
	return cnicRe.MatchString(cnic)
}

func IsValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

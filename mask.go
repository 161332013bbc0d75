package fieldmap

import (
	"net/netip"
	"strings"
	"unicode"
)

// MaskType names a data format with a masking rule.
// Use these constants in struct tags: `mask:"email"`.
type MaskType string

const (
	MaskSSN   MaskType = "ssn"   // 123-45-6789 -> ***-**-6789
	MaskEmail MaskType = "email" // alice@example.com -> a***@example.com
	MaskPhone MaskType = "phone" // (555) 123-4567 -> (***) ***-4567
	MaskCard  MaskType = "card"  // 4111 1111 1111 1111 -> **** **** **** 1111
	MaskIP    MaskType = "ip"    // 192.168.1.100 -> 192.168.xxx.xxx
	MaskName  MaskType = "name"  // John Smith -> J*** S****
)

// Masker hides part of a string while keeping it recognisable.
type Masker interface {
	Mask(value string) string
}

// MaskerFunc adapts a function to Masker.
type MaskerFunc func(value string) string

// Mask calls f(value).
func (f MaskerFunc) Mask(value string) string {
	return f(value)
}

// SSNMasker keeps the last four digits of a Social Security Number.
func SSNMasker() Masker {
	return MaskerFunc(func(value string) string {
		last4, ok := lastDigits(value, 4)
		if !ok {
			return hideAll(value)
		}
		return "***-**-" + last4
	})
}

// EmailMasker keeps the first character of the local part and the domain.
func EmailMasker() Masker {
	return MaskerFunc(func(value string) string {
		at := strings.LastIndex(value, "@")
		if at < 1 {
			return hideAll(value)
		}
		first := []rune(value[:at])[0]
		return string(first) + "***" + value[at:]
	})
}

// PhoneMasker keeps the last four digits of a phone number.
func PhoneMasker() Masker {
	return MaskerFunc(func(value string) string {
		digits := onlyDigits(value)
		if len(digits) < 4 {
			return hideAll(value)
		}
		last4 := digits[len(digits)-4:]
		switch {
		case strings.HasPrefix(value, "(") && len(digits) >= 10:
			return "(***) ***-" + last4
		case len(digits) >= 10:
			return "***-***-" + last4
		default:
			return "***-" + last4
		}
	})
}

// CardMasker hides every digit of a card number except the last four,
// keeping separators where they were.
func CardMasker() Masker {
	return MaskerFunc(func(value string) string {
		total := len(onlyDigits(value))
		if total < 4 {
			return hideAll(value)
		}
		var b strings.Builder
		seen := 0
		for _, r := range value {
			if !unicode.IsDigit(r) {
				b.WriteRune(r)
				continue
			}
			seen++
			if seen > total-4 {
				b.WriteRune(r)
			} else {
				b.WriteByte('*')
			}
		}
		return b.String()
	})
}

// IPMasker keeps the network half of an address: the first two octets of
// IPv4 and the first four groups of IPv6.
func IPMasker() Masker {
	return MaskerFunc(func(value string) string {
		addr, err := netip.ParseAddr(value)
		if err != nil {
			return hideAll(value)
		}
		if addr.Is4() {
			parts := strings.Split(addr.String(), ".")
			return parts[0] + "." + parts[1] + ".xxx.xxx"
		}
		groups := strings.Split(addr.WithZone("").StringExpanded(), ":")
		return strings.Join(groups[:4], ":") + ":xxxx:xxxx:xxxx:xxxx"
	})
}

// NameMasker keeps the first letter of each word.
func NameMasker() Masker {
	return MaskerFunc(func(value string) string {
		words := strings.Fields(value)
		for i, w := range words {
			runes := []rune(w)
			words[i] = string(runes[0]) + strings.Repeat("*", len(runes)-1)
		}
		return strings.Join(words, " ")
	})
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func lastDigits(s string, n int) (string, bool) {
	digits := onlyDigits(s)
	if len(digits) < n {
		return "", false
	}
	return digits[len(digits)-n:], true
}

func hideAll(s string) string {
	return strings.Repeat("*", len([]rune(s)))
}

// builtinMaskers returns the default masker registry.
func builtinMaskers() map[MaskType]Masker {
	return map[MaskType]Masker{
		MaskSSN:   SSNMasker(),
		MaskEmail: EmailMasker(),
		MaskPhone: PhoneMasker(),
		MaskCard:  CardMasker(),
		MaskIP:    IPMasker(),
		MaskName:  NameMasker(),
	}
}

package fieldmap

import (
	"testing"
)

func TestSSNMasker(t *testing.T) {
	m := SSNMasker()

	tests := []struct {
		input    string
		expected string
	}{
		{"123-45-6789", "***-**-6789"},
		{"123456789", "***-**-6789"},
		{"123", "***"}, // Too short
	}

	for _, tt := range tests {
		result := m.Mask(tt.input)
		if result != tt.expected {
			t.Errorf("SSNMasker(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestEmailMasker(t *testing.T) {
	m := EmailMasker()

	tests := []struct {
		input    string
		expected string
	}{
		{"alice@example.com", "a***@example.com"},
		{"a@b.com", "a***@b.com"},
		{"élodie@example.fr", "é***@example.fr"},
		{"noatsign", "********"},
		{"@nolocal", "********"},
	}

	for _, tt := range tests {
		result := m.Mask(tt.input)
		if result != tt.expected {
			t.Errorf("EmailMasker(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestPhoneMasker(t *testing.T) {
	m := PhoneMasker()

	tests := []struct {
		input    string
		expected string
	}{
		{"(555) 123-4567", "(***) ***-4567"},
		{"555-123-4567", "***-***-4567"},
		{"123-4567", "***-4567"},
		{"123", "***"},
	}

	for _, tt := range tests {
		result := m.Mask(tt.input)
		if result != tt.expected {
			t.Errorf("PhoneMasker(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestCardMasker(t *testing.T) {
	m := CardMasker()

	tests := []struct {
		input    string
		expected string
	}{
		{"4111111111111111", "************1111"},
		{"4111 1111 1111 1111", "**** **** **** 1111"},
		{"4111-1111-1111-1111", "****-****-****-1111"},
		{"12", "**"},
	}

	for _, tt := range tests {
		result := m.Mask(tt.input)
		if result != tt.expected {
			t.Errorf("CardMasker(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestIPMasker(t *testing.T) {
	m := IPMasker()

	tests := []struct {
		input    string
		expected string
	}{
		{"192.168.1.100", "192.168.xxx.xxx"},
		{"2001:db8::1", "2001:0db8:0000:0000:xxxx:xxxx:xxxx:xxxx"},
		{"not-an-ip", "*********"},
	}

	for _, tt := range tests {
		result := m.Mask(tt.input)
		if result != tt.expected {
			t.Errorf("IPMasker(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestNameMasker(t *testing.T) {
	m := NameMasker()

	tests := []struct {
		input    string
		expected string
	}{
		{"John Smith", "J*** S****"},
		{"Zoë", "Z**"},
		{"", ""},
	}

	for _, tt := range tests {
		result := m.Mask(tt.input)
		if result != tt.expected {
			t.Errorf("NameMasker(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestMaskerFunc(t *testing.T) {
	m := MaskerFunc(func(string) string { return "x" })
	if got := m.Mask("anything"); got != "x" {
		t.Errorf("Mask() = %q, want %q", got, "x")
	}
}

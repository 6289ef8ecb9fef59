package validators

import "testing"

func TestNormalizeCEP(t *testing.T) {
	cases := map[string]string{
		"01001-000":  "01001000",
		"01001000":   "01001000",
		" 01001000 ": "01001000",
		"01.001-000": "01001000",
	}

	for in, want := range cases {
		if got := NormalizeCEP(in); got != want {
			t.Errorf("NormalizeCEP(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsValidCEP(t *testing.T) {
	valid := []string{"01001000", "99999999"}
	invalid := []string{"", "123", "abcdefgh", "0100100a", "010010001"}

	for _, cep := range valid {
		if !IsValidCEP(cep) {
			t.Errorf("IsValidCEP(%q) = false, want true", cep)
		}
	}
	for _, cep := range invalid {
		if IsValidCEP(cep) {
			t.Errorf("IsValidCEP(%q) = true, want false", cep)
		}
	}
}

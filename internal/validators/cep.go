package validators

import "strings"

// NormalizeCEP remove tudo que não for dígito ("23092-620" -> "23092620").
func NormalizeCEP(cep string) string {
	var b strings.Builder
	for _, r := range cep {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidCEP aceita o formato de 8 dígitos usado pelos Correios.
func IsValidCEP(cep string) bool {
	return len(NormalizeCEP(cep)) == 8
}

package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/petshopcentral/petshop-api/internal/httpresp"
)

// FieldErrors converte o erro devolvido pelo binding do gin (validator/v10)
// numa lista de mensagens por campo. Erros que não são de validação viram um
// único item "body".
func FieldErrors(err error) []httpresp.FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []httpresp.FieldError{{Field: "body", Message: "JSON malformado."}}
	}

	out := make([]httpresp.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, httpresp.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obrigatório."
	case "email":
		return "Email inválido."
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("Deve ter pelo menos %s caracteres.", fe.Param())
		}
		return fmt.Sprintf("Deve ser no mínimo %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Deve ter no máximo %s caracteres.", fe.Param())
	case "len":
		return fmt.Sprintf("Deve ter exatamente %s caracteres.", fe.Param())
	case "gt":
		return fmt.Sprintf("Deve ser maior que %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Deve ser um de: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return "Data/hora inválida."
	default:
		return "Valor inválido."
	}
}

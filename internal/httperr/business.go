package httperr

import (
	"errors"
	"net/http"
)

// BusinessError é o erro operacional tipado lançado pela lógica de negócio.
// Carrega o status HTTP escolhido por quem lançou.
type BusinessError struct {
	Code    string
	Status  int
	Message string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code, message string) error {
	return BusinessError{Code: code, Status: http.StatusBadRequest, Message: message}
}

func ErrNotFound(code, message string) error {
	return BusinessError{Code: code, Status: http.StatusNotFound, Message: message}
}

func ErrForbidden(code, message string) error {
	return BusinessError{Code: code, Status: http.StatusForbidden, Message: message}
}

func ErrConflict(code, message string) error {
	return BusinessError{Code: code, Status: http.StatusConflict, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized: сервер отверг ключ API (401/403).
var ErrUnauthorized = errors.New("unauthorized")

// TransportError: сетевая ошибка или ответ сервера с кодом не 2xx.
type TransportError struct {
	Op         string
	StatusCode int // 0, если ответа не было
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport сообщает, что err: ошибка обмена с сервером.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

package model

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrValidation: некорректные входные данные (id хранилища, дата, запись, payload).
var ErrValidation = errors.New("validation error")

var vaultIDRe = regexp.MustCompile(`^[a-fA-F0-9-]{36}$`)

// ValidateVaultID проверяет формат идентификатора хранилища (UUID, как его принимает сервер).
func ValidateVaultID(id string) error {
	if !vaultIDRe.MatchString(id) {
		return fmt.Errorf("%w: invalid vault id %q", ErrValidation, id)
	}
	return nil
}

// ValidateDateKey проверяет, что ключ: реальная дата в формате YYYY-MM-DD.
func ValidateDateKey(date string) error {
	t, err := time.Parse(DateLayout, date)
	if err != nil || t.Format(DateLayout) != date {
		return fmt.Errorf("%w: invalid date %q (want YYYY-MM-DD)", ErrValidation, date)
	}
	return nil
}

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation — поле формы пустое или некорректное, исправляется пользователем.
	ErrValidation = errors.New("validation error")
	// ErrCryptoFailure — недоступен криптографически стойкий источник случайности.
	ErrCryptoFailure = errors.New("crypto failure")
	// ErrDuplicateKey — email уже зарегистрирован.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrStorageFailure — любая другая ошибка уровня БД.
	ErrStorageFailure = errors.New("storage failure")
)

// ValidationReason уточняет, что именно не так с полем.
type ValidationReason string

const (
	ReasonMissing ValidationReason = "missing"
	ReasonFormat  ValidationReason = "format"
)

// ValidationError описывает ошибку конкретного поля формы.
type ValidationError struct {
	Field  string
	Reason ValidationReason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

// Is позволяет сопоставлять ошибку с ErrValidation через errors.Is.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

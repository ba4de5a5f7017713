// Package precheck повторяет правила браузерной проверки формы
// (static/validaciones.js) в виде чистой функции.
//
// Проверка носит рекомендательный характер: сервер валидирует всё заново.
package precheck

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrEmptyField       = errors.New("Todos los campos son obligatorios.")
	ErrPasswordMismatch = errors.New("Las contraseñas no coinciden. Por favor, inténtelo de nuevo.")
)

// Form — поля формы регистрации, включая повтор пароля.
type Form struct {
	Nombre            string
	Email             string
	Contrasena        string
	RepetirContrasena string
}

// Strip убирает одинарные кавычки, '@' и пробельные символы.
func Strip(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\'' || r == '@' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Check возвращает nil, если форму можно отправлять.
// Очищенные значения используются только для проверок, отправляются исходные.
func Check(f Form) error {
	nombre := Strip(f.Nombre)
	email := Strip(f.Email)
	pass := Strip(f.Contrasena)
	repeat := Strip(f.RepetirContrasena)

	if nombre == "" || email == "" || pass == "" || repeat == "" {
		return ErrEmptyField
	}
	if pass != repeat {
		return ErrPasswordMismatch
	}
	return nil
}

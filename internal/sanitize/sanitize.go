// Package sanitize готовит пользовательский текст к безопасному выводу в HTML
// и проверяет формат email.
//
// Экранирование здесь не защищает от SQL-инъекций: для записи в БД
// используются только параметризованные запросы.
package sanitize

import (
	"net/mail"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var htmlReplacer = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
	`'`, "&#039;",
)

// Clean обрезает пробелы по краям и экранирует символы, значимые для HTML.
func Clean(input string) string {
	return htmlReplacer.Replace(strings.TrimSpace(input))
}

const (
	maxEmailLen = 254
	maxLocalLen = 64
	maxLabelLen = 63
)

// ValidEmail проверяет, что строка — голый ASCII-адрес вида local@domain.tld.
// Поверх правила email из validator действуют ограничения длины и меток домена.
func ValidEmail(email string) bool {
	if email == "" || len(email) > maxEmailLen || !printableASCII(email) {
		return false
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return false
	}

	at := strings.LastIndexByte(email, '@')
	local, domain := email[:at], email[at+1:]
	if local == "" || len(local) > maxLocalLen {
		return false
	}
	return validDomain(domain)
}

// printableASCII отсекает пробелы, управляющие символы и не-ASCII.
func printableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] <= ' ' || s[i] > '~' {
			return false
		}
	}
	return true
}

func validDomain(domain string) bool {
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" || len(label) > maxLabelLen {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			switch {
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
			default:
				return false
			}
		}
	}
	return true
}

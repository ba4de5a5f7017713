// internal/domain/account.go
package domain

// Account представляет учётную запись клиента.
// Соответствует таблице 'clientes' в базе данных.
type Account struct {
	Email          string `json:"email" db:"email"`
	PasswordDigest string `json:"-" db:"password"`
	Salt           string `json:"-" db:"salt"`
	Names          string `json:"names" db:"names"`
}

// Submission — сырые поля формы регистрации в том виде, в каком их прислал браузер.
type Submission struct {
	Nombre     string
	Email      string
	Contrasena string
}

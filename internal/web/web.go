// Package web содержит HTML-страницы и браузерную проверку формы.
package web

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Pages — распарсенные шаблоны страниц.
type Pages struct {
	form    *template.Template
	welcome *template.Template
}

// FormData — данные для страницы регистрации.
type FormData struct {
	Action string
	Error  string
}

// ParsePages разбирает встроенные шаблоны.
func ParsePages() (*Pages, error) {
	form, err := template.ParseFS(templatesFS, "templates/registro.html")
	if err != nil {
		return nil, err
	}
	welcome, err := template.ParseFS(templatesFS, "templates/bienvenido.html")
	if err != nil {
		return nil, err
	}
	return &Pages{form: form, welcome: welcome}, nil
}

// RenderForm выводит форму; Error экранируется шаблонизатором.
func (p *Pages) RenderForm(w io.Writer, data FormData) error {
	return p.form.Execute(w, data)
}

// RenderWelcome выводит страницу подтверждения.
func (p *Pages) RenderWelcome(w io.Writer) error {
	return p.welcome.Execute(w, nil)
}

// Static возвращает файловую систему с содержимым каталога static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// каталог встроен при сборке
		panic(err)
	}
	return sub
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/GoArmGo/registro/internal/domain"
	"github.com/GoArmGo/registro/internal/usecase"
	"github.com/GoArmGo/registro/internal/web"
)

const (
	SubmitPath  = "/registro"
	FormPath    = "/registro.html"
	WelcomePath = "/bienvenido.html"

	maxFormBytes = 1 << 20
)

// Сообщения для пользователя. Внутренние детали ошибок сюда не попадают.
const (
	MsgRequiredFields = "Todos los campos son obligatorios."
	MsgInvalidEmail   = "El formato del correo electrónico no es válido."
	MsgSecurityError  = "Ocurrió un error crítico de seguridad al procesar tu solicitud."
	MsgAlreadyExists  = "El correo electrónico ya está registrado."
	MsgTryLater       = "Ocurrió un problema al intentar registrar el usuario. Inténtalo más tarde."
)

// RegistrationHandler — обработчик HTTP-запросов формы регистрации.
type RegistrationHandler struct {
	useCase usecase.RegistrationUseCase
	pages   *web.Pages
	logger  *slog.Logger
}

// NewRegistrationHandler создаёт новый экземпляр RegistrationHandler.
func NewRegistrationHandler(uc usecase.RegistrationUseCase, pages *web.Pages, logger *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		useCase: uc,
		pages:   pages,
		logger:  logger,
	}
}

// Register — принимает POST формы и отвечает ровно одним редиректом.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("failed to parse registration form", "error", err)
		h.redirectToForm(w, r, MsgRequiredFields)
		return
	}
	// Для multipart/form-data поля приходят только после ParseMultipartForm.
	if err := r.ParseMultipartForm(maxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.logger.Warn("failed to parse multipart registration form", "error", err)
		h.redirectToForm(w, r, MsgRequiredFields)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	sub := domain.Submission{
		Nombre:     r.PostFormValue("nombre"),
		Email:      r.PostFormValue("email"),
		Contrasena: r.PostFormValue("contrasena"),
	}

	reg, err := h.useCase.Register(r.Context(), sub)
	if err != nil {
		h.logger.Info("registration request rejected", "stage", reg.Stage.String(), "error_kind", errorKind(err))
		h.redirectToForm(w, r, userMessage(err))
		return
	}

	http.Redirect(w, r, WelcomePath, http.StatusSeeOther)
}

// RegisterNotAllowed — GET на адрес отправки ничего не обрабатывает.
func (h *RegistrationHandler) RegisterNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, FormPath, http.StatusSeeOther)
}

// Form — отдаёт страницу регистрации с необязательным сообщением об ошибке.
func (h *RegistrationHandler) Form(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := web.FormData{Action: SubmitPath, Error: r.URL.Query().Get("error")}
	if err := h.pages.RenderForm(w, data); err != nil {
		h.logger.Error("failed to render registration form", "error", err)
	}
}

// Welcome — страница подтверждения регистрации.
func (h *RegistrationHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.pages.RenderWelcome(w); err != nil {
		h.logger.Error("failed to render welcome page", "error", err)
	}
}

// Health — liveness probe.
func (h *RegistrationHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

func (h *RegistrationHandler) redirectToForm(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, FormPath+"?error="+url.QueryEscape(message), http.StatusSeeOther)
}

// userMessage переводит ошибку use case в безопасный текст для пользователя.
func userMessage(err error) string {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		if vErr.Reason == domain.ReasonFormat {
			return MsgInvalidEmail
		}
		return MsgRequiredFields
	case errors.Is(err, domain.ErrCryptoFailure):
		return MsgSecurityError
	case errors.Is(err, domain.ErrDuplicateKey):
		return MsgAlreadyExists
	default:
		return MsgTryLater
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrCryptoFailure):
		return "crypto"
	case errors.Is(err, domain.ErrDuplicateKey):
		return "duplicate_key"
	default:
		return "storage"
	}
}

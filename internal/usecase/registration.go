package usecase

import (
	"context"

	"github.com/GoArmGo/registro/internal/credential"
	"github.com/GoArmGo/registro/internal/domain"
)

// CredentialHasher определяет интерфейс получения дайджеста пароля с солью.
type CredentialHasher interface {
	Hash(secret string) (credential.Credential, error)
}

// RegistrationUseCase определяет бизнес-логику регистрации новой учётной записи.
type RegistrationUseCase interface {
	// Register проводит заявку через Validating → Hashing → Persisting.
	// Итог всегда терминальный: StateCompleted или StateRejected.
	// Ошибка сопоставима через errors.Is с одной из domain.Err*.
	Register(ctx context.Context, sub domain.Submission) (domain.Registration, error)
}

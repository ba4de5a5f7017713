package ports

import (
	"context"

	"github.com/GoArmGo/registro/internal/domain"
)

// AccountSession — соединение с БД, захваченное на время одной заявки.
type AccountSession interface {
	// InsertAccount выполняет одну параметризованную вставку.
	// Возвращает domain.ErrDuplicateKey при повторном email и
	// domain.ErrStorageFailure при любой другой ошибке БД.
	InsertAccount(ctx context.Context, account domain.Account) error

	// Close возвращает соединение в пул. Повторный вызов безопасен.
	Close() error
}

// AccountStorage выдаёт сессии для записи учётных записей.
type AccountStorage interface {
	Open(ctx context.Context) (AccountSession, error)
}

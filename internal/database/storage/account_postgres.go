package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/registro/internal/core/ports"
	"github.com/GoArmGo/registro/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	uniqueViolation    = pq.ErrorCode("23505")
	saltConstraintName = "clientes_salt_key"

	insertAccountQuery = `INSERT INTO clientes (email, password, salt, names) VALUES ($1, $2, $3, $4)`
)

// AccountStorage реализует ports.AccountStorage поверх PostgreSQL.
type AccountStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewAccountStorage создает новый экземпляр AccountStorage
func NewAccountStorage(db *sqlx.DB, logger *slog.Logger) *AccountStorage {
	return &AccountStorage{db: db, logger: logger}
}

// Open захватывает одно соединение из пула на время заявки.
func (s *AccountStorage) Open(ctx context.Context) (ports.AccountSession, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		s.logger.Error("failed to acquire database connection", "error", err)
		return nil, fmt.Errorf("%w: acquire connection: %w", domain.ErrStorageFailure, err)
	}
	return &accountSession{conn: conn, logger: s.logger}, nil
}

type accountSession struct {
	conn   *sqlx.Conn
	logger *slog.Logger
}

// InsertAccount сохраняет новую учётную запись.
func (s *accountSession) InsertAccount(ctx context.Context, account domain.Account) error {
	if s.conn == nil {
		return fmt.Errorf("%w: session is closed", domain.ErrStorageFailure)
	}
	start := time.Now()

	_, err := s.conn.ExecContext(ctx, insertAccountQuery,
		account.Email, account.PasswordDigest, account.Salt, account.Names)
	if err != nil {
		return classifyInsertError(err)
	}

	s.logger.Info("account saved successfully",
		"email", account.Email,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *accountSession) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	if err != nil {
		return fmt.Errorf("release connection: %w", err)
	}
	return nil
}

// classifyInsertError отделяет повторный email от прочих ошибок БД.
// Коллизия соли тоже нарушает уникальность, но пользователь тут ни при чём.
func classifyInsertError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint != saltConstraintName {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateKey, pqErr.Constraint)
	}
	return fmt.Errorf("%w: insert account: %w", domain.ErrStorageFailure, err)
}

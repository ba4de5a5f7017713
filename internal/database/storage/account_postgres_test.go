package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoArmGo/registro/internal/domain"
	"github.com/GoArmGo/registro/internal/logger"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var insertPattern = regexp.QuoteMeta(insertAccountQuery)

func newStorageWithMock(t *testing.T) (*AccountStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewAccountStorage(sqlx.NewDb(db, "sqlmock"), logger.Discard()), mock
}

func testAccount() domain.Account {
	return domain.Account{
		Email:          "ana@test.com",
		PasswordDigest: "2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b",
		Salt:           "0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f",
		Names:          "Ana",
	}
}

func TestInsertAccount_Success(t *testing.T) {
	s, mock := newStorageWithMock(t)
	acc := testAccount()

	mock.ExpectExec(insertPattern).
		WithArgs(acc.Email, acc.PasswordDigest, acc.Salt, acc.Names).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sess, err := s.Open(context.Background())
	require.NoError(t, err)
	defer sess.Close()

	require.NoError(t, sess.InsertAccount(context.Background(), acc))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertAccount_DuplicateEmail(t *testing.T) {
	s, mock := newStorageWithMock(t)
	acc := testAccount()

	mock.ExpectExec(insertPattern).
		WithArgs(acc.Email, acc.PasswordDigest, acc.Salt, acc.Names).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "clientes_email_key"})

	sess, err := s.Open(context.Background())
	require.NoError(t, err)
	defer sess.Close()

	err = sess.InsertAccount(context.Background(), acc)
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)
	assert.NotErrorIs(t, err, domain.ErrStorageFailure)
}

func TestInsertAccount_SaltCollisionIsStorageFailure(t *testing.T) {
	s, mock := newStorageWithMock(t)
	acc := testAccount()

	mock.ExpectExec(insertPattern).
		WithArgs(acc.Email, acc.PasswordDigest, acc.Salt, acc.Names).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "clientes_salt_key"})

	sess, err := s.Open(context.Background())
	require.NoError(t, err)
	defer sess.Close()

	err = sess.InsertAccount(context.Background(), acc)
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
	assert.NotErrorIs(t, err, domain.ErrDuplicateKey)
}

func TestInsertAccount_OtherDBError(t *testing.T) {
	s, mock := newStorageWithMock(t)
	acc := testAccount()
	cause := errors.New("connection reset by peer")

	mock.ExpectExec(insertPattern).
		WithArgs(acc.Email, acc.PasswordDigest, acc.Salt, acc.Names).
		WillReturnError(cause)

	sess, err := s.Open(context.Background())
	require.NoError(t, err)
	defer sess.Close()

	err = sess.InsertAccount(context.Background(), acc)
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
	assert.ErrorIs(t, err, cause)
}

func TestInsertAccount_BindsHostileInput(t *testing.T) {
	s, mock := newStorageWithMock(t)
	acc := testAccount()
	acc.Names = "x'); DROP TABLE clientes;--"

	// the query text stays fixed; hostile input only travels as an argument
	mock.ExpectExec(insertPattern).
		WithArgs(acc.Email, acc.PasswordDigest, acc.Salt, acc.Names).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sess, err := s.Open(context.Background())
	require.NoError(t, err)
	defer sess.Close()

	require.NoError(t, sess.InsertAccount(context.Background(), acc))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_ClosedDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()
	require.NoError(t, db.Close())

	s := NewAccountStorage(sqlx.NewDb(db, "sqlmock"), logger.Discard())
	_, err = s.Open(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	s, _ := newStorageWithMock(t)

	sess, err := s.Open(context.Background())
	require.NoError(t, err)

	require.NoError(t, sess.Close())
	require.NoError(t, sess.Close())

	err = sess.InsertAccount(context.Background(), testAccount())
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
}

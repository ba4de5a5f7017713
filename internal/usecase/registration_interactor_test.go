package usecase

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/GoArmGo/registro/internal/core/ports"
	"github.com/GoArmGo/registro/internal/credential"
	"github.com/GoArmGo/registro/internal/database/storage"
	"github.com/GoArmGo/registro/internal/domain"
	"github.com/GoArmGo/registro/internal/logger"
	"github.com/GoArmGo/registro/internal/messaging/payloads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type countingHasher struct {
	calls int
	err   error
	inner *credential.Hasher
}

func newCountingHasher() *countingHasher {
	return &countingHasher{inner: credential.NewHasher(nil)}
}

func (h *countingHasher) Hash(secret string) (credential.Credential, error) {
	h.calls++
	if h.err != nil {
		return credential.Credential{}, h.err
	}
	return h.inner.Hash(secret)
}

type failingStorage struct{ err error }

func (f failingStorage) Open(context.Context) (ports.AccountSession, error) { return nil, f.err }

type brokenInsertStorage struct {
	err    error
	closed int
}

func (b *brokenInsertStorage) Open(context.Context) (ports.AccountSession, error) {
	return brokenSession{b}, nil
}

type brokenSession struct{ s *brokenInsertStorage }

func (s brokenSession) InsertAccount(context.Context, domain.Account) error { return s.s.err }
func (s brokenSession) Close() error                                        { s.s.closed++; return nil }

type recordingPublisher struct {
	published []payloads.AccountRegisteredPayload
	err       error
}

func (p *recordingPublisher) PublishAccountRegistered(_ context.Context, payload payloads.AccountRegisteredPayload) error {
	p.published = append(p.published, payload)
	return p.err
}

func validSubmission() domain.Submission {
	return domain.Submission{Nombre: "Ana", Email: "ana@test.com", Contrasena: "secret1"}
}

// --- tests ---

func TestRegister_Success(t *testing.T) {
	store := storage.NewMemoryAccountStorage()
	hasher := newCountingHasher()
	pub := &recordingPublisher{}
	uc := NewRegistrationUseCase(store, hasher, pub, logger.Discard())

	reg, err := uc.Register(context.Background(), validSubmission())
	require.NoError(t, err)

	assert.Equal(t, domain.StateCompleted, reg.State)
	assert.Equal(t, domain.StatePersisting, reg.Stage)
	require.NotNil(t, reg.Account)

	accounts := store.Accounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, "ana@test.com", accounts[0].Email)
	assert.Equal(t, "Ana", accounts[0].Names)
	assert.Len(t, accounts[0].PasswordDigest, 64)
	assert.Len(t, accounts[0].Salt, 32)

	ok, err := credential.Verify("secret1", credential.Credential{Digest: accounts[0].PasswordDigest, Salt: accounts[0].Salt})
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, pub.published, 1)
	assert.Equal(t, "ana@test.com", pub.published[0].Email)
	assert.Equal(t, 0, store.OpenSessions())
}

func TestRegister_SanitizesDisplayFields(t *testing.T) {
	store := storage.NewMemoryAccountStorage()
	uc := NewRegistrationUseCase(store, newCountingHasher(), nil, logger.Discard())

	_, err := uc.Register(context.Background(), domain.Submission{
		Nombre:     "  <b>Ana</b> ",
		Email:      " ana@test.com ",
		Contrasena: " secret1 ",
	})
	require.NoError(t, err)

	accounts := store.Accounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, "&lt;b&gt;Ana&lt;/b&gt;", accounts[0].Names)
	assert.Equal(t, "ana@test.com", accounts[0].Email)

	// the password is hashed as typed, surrounding spaces included
	ok, err := credential.Verify(" secret1 ", credential.Credential{Digest: accounts[0].PasswordDigest, Salt: accounts[0].Salt})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		sub   domain.Submission
		field string
	}{
		{"nombre", domain.Submission{Email: "ana@test.com", Contrasena: "secret1"}, "nombre"},
		{"blank nombre", domain.Submission{Nombre: "   ", Email: "ana@test.com", Contrasena: "secret1"}, "nombre"},
		{"email", domain.Submission{Nombre: "Ana", Contrasena: "secret1"}, "email"},
		{"contrasena", domain.Submission{Nombre: "Ana", Email: "ana@test.com"}, "contrasena"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryAccountStorage()
			hasher := newCountingHasher()
			uc := NewRegistrationUseCase(store, hasher, nil, logger.Discard())

			reg, err := uc.Register(context.Background(), tt.sub)

			require.ErrorIs(t, err, domain.ErrValidation)
			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
			assert.Equal(t, domain.ReasonMissing, vErr.Reason)

			assert.Equal(t, domain.StateRejected, reg.State)
			assert.Equal(t, domain.StateValidating, reg.Stage)
			assert.Zero(t, hasher.calls)
			assert.Empty(t, store.Accounts())
			assert.Equal(t, 0, store.OpenSessions())
		})
	}
}

func TestRegister_InvalidEmailRejectedBeforeHashing(t *testing.T) {
	for _, email := range []string{"ana", "ana@test", "ana@@test.com", "Ana <ana@test.com>", "<ana>@test.com"} {
		t.Run(email, func(t *testing.T) {
			store := storage.NewMemoryAccountStorage()
			hasher := newCountingHasher()
			uc := NewRegistrationUseCase(store, hasher, nil, logger.Discard())

			sub := validSubmission()
			sub.Email = email
			reg, err := uc.Register(context.Background(), sub)

			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "email", vErr.Field)
			assert.Equal(t, domain.ReasonFormat, vErr.Reason)
			assert.Equal(t, domain.StateValidating, reg.Stage)
			assert.Zero(t, hasher.calls)
			assert.Empty(t, store.Accounts())
		})
	}
}

func TestRegister_CryptoFailure(t *testing.T) {
	store := storage.NewMemoryAccountStorage()
	uc := NewRegistrationUseCase(store, credential.NewHasher(bytes.NewReader(nil)), nil, logger.Discard())

	reg, err := uc.Register(context.Background(), validSubmission())

	assert.ErrorIs(t, err, domain.ErrCryptoFailure)
	assert.Equal(t, domain.StateRejected, reg.State)
	assert.Equal(t, domain.StateHashing, reg.Stage)
	assert.Empty(t, store.Accounts())
	assert.Equal(t, 0, store.OpenSessions())
}

func TestRegister_UnclassifiedHasherErrorIsCryptoFailure(t *testing.T) {
	hasher := newCountingHasher()
	hasher.err = errors.New("boom")
	uc := NewRegistrationUseCase(storage.NewMemoryAccountStorage(), hasher, nil, logger.Discard())

	_, err := uc.Register(context.Background(), validSubmission())
	assert.ErrorIs(t, err, domain.ErrCryptoFailure)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := storage.NewMemoryAccountStorage()
	pub := &recordingPublisher{}
	uc := NewRegistrationUseCase(store, newCountingHasher(), pub, logger.Discard())

	_, err := uc.Register(context.Background(), validSubmission())
	require.NoError(t, err)

	reg, err := uc.Register(context.Background(), validSubmission())
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)
	assert.NotErrorIs(t, err, domain.ErrStorageFailure)
	assert.Equal(t, domain.StateRejected, reg.State)
	assert.Equal(t, domain.StatePersisting, reg.Stage)

	assert.Len(t, store.Accounts(), 1)
	assert.Len(t, pub.published, 1)
	assert.Equal(t, 0, store.OpenSessions())
}

func TestRegister_StorageUnavailable(t *testing.T) {
	hasher := newCountingHasher()
	uc := NewRegistrationUseCase(
		failingStorage{err: errors.Join(domain.ErrStorageFailure, errors.New("dial tcp: refused"))},
		hasher, nil, logger.Discard(),
	)

	reg, err := uc.Register(context.Background(), validSubmission())
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
	assert.Equal(t, domain.StateRejected, reg.State)
	assert.Zero(t, hasher.calls)
}

func TestRegister_InsertFailureReleasesSession(t *testing.T) {
	store := &brokenInsertStorage{err: errors.New("disk full")}
	pub := &recordingPublisher{}
	uc := NewRegistrationUseCase(store, newCountingHasher(), pub, logger.Discard())

	reg, err := uc.Register(context.Background(), validSubmission())
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
	assert.Equal(t, domain.StatePersisting, reg.Stage)
	assert.Equal(t, 1, store.closed)
	assert.Empty(t, pub.published)
}

func TestRegister_PublishFailureDoesNotReject(t *testing.T) {
	store := storage.NewMemoryAccountStorage()
	pub := &recordingPublisher{err: errors.New("broker down")}
	uc := NewRegistrationUseCase(store, newCountingHasher(), pub, logger.Discard())

	reg, err := uc.Register(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, reg.State)
	assert.Len(t, store.Accounts(), 1)
}

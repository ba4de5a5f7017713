package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/GoArmGo/registro/internal/core/ports"
	"github.com/GoArmGo/registro/internal/domain"
	"github.com/GoArmGo/registro/internal/messaging/payloads"
	"github.com/GoArmGo/registro/internal/sanitize"
)

// registrationUseCase implements RegistrationUseCase
type registrationUseCase struct {
	accounts  ports.AccountStorage
	hasher    CredentialHasher
	publisher ports.AccountEventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewRegistrationUseCase создает новый экземпляр RegistrationUseCase.
// publisher может быть nil: тогда события не публикуются.
func NewRegistrationUseCase(
	accounts ports.AccountStorage,
	hasher CredentialHasher,
	publisher ports.AccountEventPublisher,
	logger *slog.Logger,
) RegistrationUseCase {
	return &registrationUseCase{
		accounts:  accounts,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// run — состояние одной заявки.
type run struct {
	reg    domain.Registration
	logger *slog.Logger
}

func (r *run) enter(s domain.State) {
	r.logger.Debug("registration state transition", "from", r.reg.State.String(), "to", s.String())
	r.reg.State = s
	r.reg.Stage = s
}

func (r *run) reject(err error) (domain.Registration, error) {
	r.logger.Debug("registration state transition", "from", r.reg.State.String(), "to", domain.StateRejected.String())
	r.reg.State = domain.StateRejected
	return r.reg, err
}

func (r *run) complete() (domain.Registration, error) {
	r.logger.Debug("registration state transition", "from", r.reg.State.String(), "to", domain.StateCompleted.String())
	r.reg.State = domain.StateCompleted
	return r.reg, nil
}

// Register проводит одну заявку через конечный автомат.
func (uc *registrationUseCase) Register(ctx context.Context, sub domain.Submission) (domain.Registration, error) {
	start := uc.now()
	r := &run{reg: domain.Registration{State: domain.StateIdle, Stage: domain.StateIdle}, logger: uc.logger}

	// Соединение захватывается в начале заявки и освобождается на любом выходе.
	r.enter(domain.StateValidating)
	session, err := uc.accounts.Open(ctx)
	if err != nil {
		uc.logger.Error("registration rejected: storage unavailable", "error", err)
		if !errors.Is(err, domain.ErrStorageFailure) {
			err = errors.Join(domain.ErrStorageFailure, err)
		}
		return r.reject(err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			uc.logger.Warn("failed to release database session", "error", cerr)
		}
	}()

	account, err := validate(sub)
	if err != nil {
		uc.logger.Info("registration rejected: invalid submission", "error", err)
		return r.reject(err)
	}

	r.enter(domain.StateHashing)
	cred, err := uc.hasher.Hash(sub.Contrasena)
	if err != nil {
		uc.logger.Error("registration rejected: secure randomness unavailable",
			"security", true,
			"email", account.Email,
			"error", err,
		)
		if !errors.Is(err, domain.ErrCryptoFailure) {
			err = errors.Join(domain.ErrCryptoFailure, err)
		}
		return r.reject(err)
	}
	account.PasswordDigest = cred.Digest
	account.Salt = cred.Salt

	r.enter(domain.StatePersisting)
	if err := session.InsertAccount(ctx, account); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateKey):
			uc.logger.Warn("registration rejected: email already registered", "email", account.Email)
		default:
			uc.logger.Error("registration rejected: storage failure", "email", account.Email, "error", err)
			if !errors.Is(err, domain.ErrStorageFailure) {
				err = errors.Join(domain.ErrStorageFailure, err)
			}
		}
		return r.reject(err)
	}

	r.reg.Account = &account
	uc.publishRegistered(ctx, account)

	uc.logger.Info("account registered",
		"email", account.Email,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return r.complete()
}

// validate очищает поля для вывода в HTML и проверяет обязательность и формат.
// Пароль не очищается: он только хешируется.
func validate(sub domain.Submission) (domain.Account, error) {
	names := sanitize.Clean(sub.Nombre)
	email := sanitize.Clean(sub.Email)

	switch {
	case names == "":
		return domain.Account{}, &domain.ValidationError{Field: "nombre", Reason: domain.ReasonMissing}
	case email == "":
		return domain.Account{}, &domain.ValidationError{Field: "email", Reason: domain.ReasonMissing}
	case sub.Contrasena == "":
		return domain.Account{}, &domain.ValidationError{Field: "contrasena", Reason: domain.ReasonMissing}
	}

	if !sanitize.ValidEmail(email) {
		return domain.Account{}, &domain.ValidationError{Field: "email", Reason: domain.ReasonFormat}
	}

	return domain.Account{Email: email, Names: names}, nil
}

// publishRegistered отправляет событие; ошибка не влияет на исход регистрации.
func (uc *registrationUseCase) publishRegistered(ctx context.Context, account domain.Account) {
	if uc.publisher == nil {
		return
	}
	payload := payloads.NewAccountRegistered(account.Email, account.Names, uc.now())
	if err := uc.publisher.PublishAccountRegistered(ctx, payload); err != nil {
		uc.logger.Error("failed to publish account registered event",
			"event_id", payload.EventID,
			"email", account.Email,
			"error", err,
		)
	}
}

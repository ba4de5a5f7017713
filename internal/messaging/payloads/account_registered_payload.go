package payloads

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AccountRegisteredEvent — тип события в сообщении RabbitMQ.
const AccountRegisteredEvent = "account.registered"

// ErrUnprocessable — сообщение нельзя обработать ни при какой повторной доставке.
var ErrUnprocessable = errors.New("unprocessable message")

// AccountRegisteredPayload сообщает об успешно созданной учётной записи.
// Секреты (дайджест, соль) в событие не попадают.
type AccountRegisteredPayload struct {
	EventID      uuid.UUID `json:"event_id"`
	Event        string    `json:"event"`
	Email        string    `json:"email"`
	Names        string    `json:"names"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NewAccountRegistered создаёт событие с новым идентификатором.
func NewAccountRegistered(email, names string, at time.Time) AccountRegisteredPayload {
	return AccountRegisteredPayload{
		EventID:      uuid.New(),
		Event:        AccountRegisteredEvent,
		Email:        email,
		Names:        names,
		RegisteredAt: at.UTC(),
	}
}

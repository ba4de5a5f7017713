package domain

// State — этап обработки одной заявки на регистрацию.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateHashing
	StatePersisting
	StateCompleted
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateHashing:
		return "hashing"
	case StatePersisting:
		return "persisting"
	case StateCompleted:
		return "completed"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Terminal сообщает, завершена ли обработка.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateRejected
}

// Registration — итог обработки заявки.
// Stage хранит последний нетерминальный этап, до которого дошла обработка.
type Registration struct {
	State   State
	Stage   State
	Account *Account
}

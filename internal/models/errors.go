package ledger

import (
	"errors"
	"fmt"
)

// Ошибки хранилищ и удаленных сервисов
var (
	ErrNotFound = errors.New("not found")
	ErrNetwork  = errors.New("network unavailable")
	ErrTimeout  = errors.New("operation timed out")
	ErrConflict = errors.New("conflicting modification")
	ErrAccess   = errors.New("permission denied")
	ErrServer   = errors.New("server error")

	ErrValidation          = errors.New("validation failed")
	ErrInsufficientBalance = fmt.Errorf("not enough points: %w", ErrValidation)
	ErrOptionUnavailable   = fmt.Errorf("option is unavailable: %w", ErrValidation)
	ErrOptionExpired       = fmt.Errorf("option is expired: %w", ErrValidation)
	ErrQuantityExceeded    = fmt.Errorf("quantity exceeded: %w", ErrValidation)

	// локальные нарушения инвариантов
	ErrNotLoaded  = errors.New("entry is not loaded")
	ErrPageOrder  = errors.New("page is out of order")
	ErrNoRetry    = errors.New("nothing to retry")
	ErrNoUser     = errors.New("user is not set")
	ErrBadCommand = errors.New("unknown command")
)

// Вид операции, которая завершилась ошибкой
type OpKind int

const (
	OpLoad OpKind = iota
	OpLoadPage
	OpAdd
	OpUpdate
	OpDelete
	OpSearch
	OpFilter
	OpSelect
	OpBatch
	OpSync
	OpRetry
	OpReset
	OpWatch
	OpOptions
	OpRedeem
)

var opNames = [...]string{"load", "load-page", "add", "update", "delete", "search", "filter", "select", "batch", "sync", "retry", "reset", "watch", "options", "redeem"}

func (o OpKind) String() string {
	if int(o) < 0 || int(o) >= len(opNames) {
		return "unknown"
	}
	return opNames[o]
}

// Классы ошибок
type ErrorKind int

const (
	KindGeneric ErrorKind = iota
	KindNetwork
	KindTimeout
	KindValidation
	KindPermission
	KindConflict
	KindServer
)

var kindNames = [...]string{"generic", "network", "timeout", "validation", "permission", "conflict", "server"}

func (k ErrorKind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "generic"
	}
	return kindNames[k]
}

// Подвиды ошибок валидации
type ValidationKind int

const (
	ValidationNone ValidationKind = iota
	ValidationInsufficientBalance
	ValidationOptionUnavailable
	ValidationOptionExpired
	ValidationQuantityExceeded
)

var validationNames = [...]string{"", "insufficient-balance", "option-unavailable", "option-expired", "quantity-exceeded"}

func (v ValidationKind) String() string {
	if int(v) < 0 || int(v) >= len(validationNames) {
		return ""
	}
	return validationNames[v]
}

// Классифицированная ошибка: единственный вид ошибки, который видит потребитель снапшота
type ClassifiedError struct {
	Kind          ErrorKind
	Validation    ValidationKind
	Message       string
	Op            OpKind
	TargetID      string  // запись или вариант списания
	ProvisionalID string  // временный ID созданной записи, чтобы UI убрал заглушку
	Quantity      int     // запрошенное количество (списание)
	Local         bool    // нарушение локального инварианта, повтор бессмыслен
	Command       Command // исходная команда для повтора
	Cause         error
}

// Код вида "validation:insufficient-balance"
func (e *ClassifiedError) Code() string {
	if e.Kind == KindValidation && e.Validation != ValidationNone {
		return e.Kind.String() + ":" + e.Validation.String()
	}
	return e.Kind.String()
}

func (e *ClassifiedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.TargetID, e.Code(), e.Cause)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.TargetID, e.Code())
}

func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// Можно ли повторить исходную команду
func (e *ClassifiedError) Retryable() bool {
	if e.Local || e.Command == nil {
		return false
	}
	switch e.Kind {
	case KindNetwork, KindTimeout, KindGeneric, KindServer:
		return true
	default:
		return false
	}
}

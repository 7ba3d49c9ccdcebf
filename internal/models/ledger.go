package ledger

import (
	"fmt"
	"time"
)

// Типы записей леджера
const (
	EARN     = 0
	ADJUST   = 1
	REDEEM   = 2
	TRANSFER = 3
)

// Запись леджера
type LedgerEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Points      int64     `json:"points"` // со знаком
	Description string    `json:"description"`
	CategoryID  string    `json:"categoryId"`
	Kind        int       `json:"kind"`
	CreatedAt   time.Time `json:"createdAt"`
	Provisional bool      `json:"provisional"` // локальная копия до подтверждения сервером
}

// Категория
type Category struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Priority int    `bson:"priority" json:"priority"`
	Color    string `bson:"color,omitempty" json:"color,omitempty"`
	Icon     string `bson:"icon,omitempty" json:"icon,omitempty"`
}

// Доступность варианта списания
const (
	AVAILABLE   = 0
	LIMITED     = 1
	UNAVAILABLE = 2
)

// Вариант списания баллов
type RedemptionOption struct {
	ID          string    `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Cost        int64     `bson:"cost" json:"cost"`
	CategoryID  string    `bson:"categoryid" json:"categoryId"`
	Status      int       `bson:"status" json:"status"`
	MaxQuantity int       `bson:"maxquantity" json:"maxQuantity"` // 0 - без ограничений
	ExpiresAt   time.Time `bson:"expiresat" json:"expiresAt"`     // нулевое значение - бессрочно
}

// Истек ли срок варианта на дату
func (o RedemptionOption) Expired(now time.Time) bool {
	return !o.ExpiresAt.IsZero() && !now.Before(o.ExpiresAt)
}

// Проверка списания quantity единиц при балансе balance
func (o RedemptionOption) Validate(quantity int, balance int64, now time.Time) error {
	switch {
	case quantity < 1:
		return fmt.Errorf("quantity %d: %w", quantity, ErrValidation)
	case o.Status == UNAVAILABLE:
		return fmt.Errorf("option %s: %w", o.ID, ErrOptionUnavailable)
	case o.Expired(now):
		return fmt.Errorf("option %s: %w", o.ID, ErrOptionExpired)
	case o.MaxQuantity > 0 && quantity > o.MaxQuantity:
		return fmt.Errorf("quantity %d of %d: %w", quantity, o.MaxQuantity, ErrQuantityExceeded)
	case o.Cost*int64(quantity) > balance:
		return fmt.Errorf("cost %d, balance %d: %w", o.Cost*int64(quantity), balance, ErrInsufficientBalance)
	}
	return nil
}

// Статусы транзакции списания
const (
	PENDING    = 0
	PROCESSING = 1
	COMPLETED  = 2
	FAILED     = 3
	CANCELLED  = 4
)

// Транзакция списания
type RedemptionTransaction struct {
	ID               string    `json:"id"`
	OptionID         string    `json:"optionId"`
	Quantity         int       `json:"quantity"`
	TotalCost        int64     `json:"totalCost"`
	Status           int       `json:"status"`
	ConfirmationCode string    `json:"confirmationCode"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	Provisional      bool      `json:"provisional"`
}

// Страничный список: порядок элементов = порядок сервера
type PaginatedList[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	HasMore bool `json:"hasMore"`
}

// Фильтр списка записей
type Filter struct {
	Query      string `json:"query"`
	CategoryID string `json:"categoryId"`
	Kinds      []int  `json:"kinds"`
}

// Пустой ли фильтр
func (f Filter) IsZero() bool {
	return f.Query == "" && f.CategoryID == "" && len(f.Kinds) == 0
}

// Операции пакета
const (
	OP_ADD    = 0
	OP_UPDATE = 1
	OP_DELETE = 2
)

// Одна операция пакета
type Operation struct {
	Type  int         `json:"type"`
	Entry LedgerEntry `json:"entry"` // для удаления достаточно ID
}

// Цель операции
func (o Operation) TargetID() string {
	return o.Entry.ID
}

// Результат операции пакета
type OperationResult struct {
	Entry LedgerEntry
	Err   error
}

// Запрос на списание в сервис баллов
type RedeemRequest struct {
	RedeemId string `json:"redeemId"`
	User     string `json:"user"`
	OptionId string `json:"optionId"`
	Quantity int    `json:"quantity"`
	Points   int64  `json:"points"`
}

// Ответ сервиса баллов на списание
type RedeemConfirm struct {
	RedeemId string `json:"redeemId"`
	Success  bool   `json:"success"`
	Reason   string `json:"reason,omitempty"` // код отказа, например "insufficient-balance"
	Code     string `json:"code,omitempty"`   // код подтверждения для пользователя
}

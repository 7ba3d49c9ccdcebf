package ledger

import (
	"context"

	model "github.com/glkeru/loyalty/ledgersync/internal/models"
)

//go:generate mockgen -destination=./../services/mock_ledger_test.go -package=ledger . LedgerRepository,BalanceWatcher
//go:generate mockgen -destination=./../db/mock_storage_test.go -package=ledger . LedgerStorage,CacheStorage,CatalogStorage,RedeemBroker

// Удаленное хранилище леджера и маркетплейса
type LedgerRepository interface {
	AddEntry(ctx context.Context, entry model.LedgerEntry) (model.LedgerEntry, error)
	UpdateEntry(ctx context.Context, entry model.LedgerEntry) (model.LedgerEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	ListEntries(ctx context.Context, user string, page int, limit int, filter model.Filter) (model.PaginatedList[model.LedgerEntry], error)
	GetBalance(ctx context.Context, user string) (points int64, err error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListOptions(ctx context.Context) ([]model.RedemptionOption, error)
	ValidateRedemption(ctx context.Context, user string, optionId string, quantity int) error
	Redeem(ctx context.Context, user string, optionId string, quantity int) (model.RedemptionTransaction, error)
	BatchExecute(ctx context.Context, ops []model.Operation) ([]model.OperationResult, error)
}

// Поток баланса пользователя; канал закрывается при отмене ctx
type BalanceWatcher interface {
	WatchBalance(ctx context.Context, user string) (<-chan int64, error)
}

// Хранилище записей и балансов
type LedgerStorage interface {
	AddEntry(ctx context.Context, entry model.LedgerEntry) (model.LedgerEntry, error)
	UpdateEntry(ctx context.Context, entry model.LedgerEntry) (model.LedgerEntry, error)
	DeleteEntry(ctx context.Context, id string) (model.LedgerEntry, error)
	ListEntries(ctx context.Context, user string, page int, limit int, filter model.Filter) (model.PaginatedList[model.LedgerEntry], error)
	GetBalance(ctx context.Context, user string) (points int64, err error)
	BatchExecute(ctx context.Context, ops []model.Operation) []model.OperationResult
}

type CatalogStorage interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListOptions(ctx context.Context) ([]model.RedemptionOption, error)
	GetOption(ctx context.Context, id string) (model.RedemptionOption, error)
	SaveOption(ctx context.Context, option model.RedemptionOption) error
	SaveCategory(ctx context.Context, category model.Category) error
}

type CacheStorage interface {
	GetBalance(ctx context.Context, user string) (points int64, err error)
	SetBalance(ctx context.Context, user string, points int64) (err error)
	InvalidateBalance(ctx context.Context, user string) error
	PublishBalance(ctx context.Context, user string, points int64) error
}

// Очередь списаний сервиса баллов
type RedeemBroker interface {
	RequestRedeem(ctx context.Context, req model.RedeemRequest) (model.RedeemConfirm, error)
}

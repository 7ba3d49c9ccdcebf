package ledger

import "time"

// Status - состояние движка, закрытое множество вариантов
type Status interface {
	status()
}

type Initial struct{}

type Loading struct {
	Page int
}

type Loaded struct{}

// Локальное изменение показано, ждем подтверждения сервера
type PendingConfirmation struct {
	Op       OpKind
	TargetID string
}

// Выполняется пакет
type Processing struct {
	Completed int
	Total     int
}

type Succeeded struct {
	Op OpKind
}

type Failed struct {
	Err *ClassifiedError
}

func (Initial) status()             {}
func (Loading) status()             {}
func (Loaded) status()              {}
func (PendingConfirmation) status() {}
func (Processing) status()          {}
func (Succeeded) status()           {}
func (Failed) status()              {}

// Имя состояния для внешних представлений
func StatusName(s Status) string {
	switch s.(type) {
	case Initial, nil:
		return "initial"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case PendingConfirmation:
		return "pending-confirmation"
	case Processing:
		return "processing"
	case Succeeded:
		return "success"
	case Failed:
		return "error"
	}
	return "unknown"
}

// Прогресс пакета
type BatchProgress struct {
	Total     int
	Completed int
	Succeeded []int                    // индексы успешных операций
	Failed    map[int]*ClassifiedError // индексы неуспешных операций
	Done      bool
}

// Доля выполненного
func (b *BatchProgress) Progress() float64 {
	if b == nil || b.Total == 0 {
		return 0
	}
	return float64(b.Completed) / float64(b.Total)
}

// Snapshot - неизменяемое состояние движка.
// Срезы внутри снапшота никогда не меняются на месте: каждое изменение создает новый срез.
type Snapshot struct {
	Status       Status
	Entries      PaginatedList[LedgerEntry]
	Transactions []RedemptionTransaction
	Options      []RedemptionOption
	Balance      int64
	Categories   []Category
	Filter       Filter
	Selected     []string
	Batch        *BatchProgress
	Err          *ClassifiedError
	RealTime     bool
	LastUpdated  time.Time
	Version      uint64
}

// Поверхностная копия: срезы общие, но они не изменяются
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	return &c
}

// Индекс записи в загруженном списке
func (s *Snapshot) EntryIndex(id string) int {
	for i, e := range s.Entries.Items {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Snapshot) Option(id string) (RedemptionOption, bool) {
	for _, o := range s.Options {
		if o.ID == id {
			return o, true
		}
	}
	return RedemptionOption{}, false
}

func (s *Snapshot) IsSelected(id string) bool {
	for _, v := range s.Selected {
		if v == id {
			return true
		}
	}
	return false
}

package ledger

// Command - закрытое множество команд движка.
// Новые варианты добавляются только в этом файле.
type Command interface {
	command()
}

// Первичная загрузка: баланс, категории, первая страница
type Load struct{}

// Загрузить страницу n под текущим фильтром
type LoadPage struct {
	Page int `json:"page"`
}

// Следующая страница, если есть
type LoadMore struct{}

type AddEntry struct {
	Entry LedgerEntry `json:"entry"`
}

type UpdateEntry struct {
	Entry LedgerEntry `json:"entry"`
}

type DeleteEntry struct {
	ID string `json:"id"`
}

// Сырой ввод строки поиска (с задержкой)
type Search struct {
	Query string `json:"query"`
}

type ClearSearch struct{}

// Фильтр по категории и типам записей, строка поиска не меняется
type SetFilter struct {
	Filter Filter `json:"filter"`
}

type Select struct {
	IDs []string `json:"ids"`
}

type Deselect struct {
	IDs []string `json:"ids"`
}

type ClearSelection struct{}

type Batch struct {
	Ops []Operation `json:"ops"`
}

// Сверка с сервером: баланс и категории
type Sync struct {
	Categories bool `json:"categories"`
}

// Повтор команды из текущей ошибки
type Retry struct{}

type Reset struct{}

type StartWatch struct{}

type StopWatch struct{}

type LoadOptions struct{}

type Redeem struct {
	OptionID string `json:"optionId"`
	Quantity int    `json:"quantity"`
}

func (Load) command()           {}
func (LoadPage) command()       {}
func (LoadMore) command()       {}
func (AddEntry) command()       {}
func (UpdateEntry) command()    {}
func (DeleteEntry) command()    {}
func (Search) command()         {}
func (ClearSearch) command()    {}
func (SetFilter) command()      {}
func (Select) command()         {}
func (Deselect) command()       {}
func (ClearSelection) command() {}
func (Batch) command()          {}
func (Sync) command()           {}
func (Retry) command()          {}
func (Reset) command()          {}
func (StartWatch) command()     {}
func (StopWatch) command()      {}
func (LoadOptions) command()    {}
func (Redeem) command()         {}

package ledger

import (
	"strings"
	"time"

	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	"go.uber.org/zap"
)

// Отложенный поиск: один таймер, одно отложенное действие.
// Все поля меняются только в цикле движка; fire вызывается из таймера
// и только ставит событие в очередь.
type debouncer struct {
	delay   time.Duration
	fire    func(gen uint64, query string)
	timer   *time.Timer
	gen     uint64
	pending string
	armed   bool
}

func (d *debouncer) schedule(query string) {
	d.stopTimer()
	d.gen++
	d.pending = query
	d.armed = true

	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(gen, query)
	})
}

// Отмена ожидающего поиска. Событие уже стоящее в очереди будет отброшено по поколению.
func (d *debouncer) cancel() {
	d.stopTimer()
	d.gen++
	d.armed = false
	d.pending = ""
}

// Забрать запрос, если событие относится к последнему вводу
func (d *debouncer) take(gen uint64) (string, bool) {
	if !d.armed || gen != d.gen {
		return "", false
	}
	d.armed = false
	d.timer = nil
	return d.pending, true
}

func (d *debouncer) stopTimer() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Ввод строки поиска
func (e *Engine) searchInput(cmd model.Search) {
	query := normalizeQuery(cmd.Query)
	if e.search.armed && query == e.search.pending {
		return
	}
	if query == e.current.Filter.Query && e.current.Entries.Page > 0 {
		// вернулись к уже примененному запросу
		e.search.cancel()
		return
	}
	e.logger.Debug("search scheduled", zap.String("query", query))
	e.search.schedule(query)
}

func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

package ledger

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"

	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Первичная загрузка: баланс, категории и первая страница параллельно
func (e *Engine) load(ctx context.Context, cmd model.Load) {
	if e.user == "" {
		e.fail(localError(model.ErrNoUser, model.OpLoad, cmd, ""))
		return
	}
	before := e.current
	loading := e.begin()
	loading.Status = model.Loading{Page: 1}
	e.emit(loading)

	var balance int64
	var categories []model.Category
	var list model.PaginatedList[model.LedgerEntry]

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return e.remote(model.OpLoad, func() error {
			b, err := e.repo.GetBalance(gctx, e.user)
			if err != nil {
				return fmt.Errorf("balance: %w", err)
			}
			balance = b
			return nil
		})
	})
	g.Go(func() error {
		return e.remote(model.OpLoad, func() error {
			c, err := e.repo.ListCategories(gctx)
			if err != nil {
				return fmt.Errorf("categories: %w", err)
			}
			categories = c
			return nil
		})
	})
	g.Go(func() error {
		return e.remote(model.OpLoad, func() error {
			l, err := e.repo.ListEntries(gctx, e.user, 1, e.pageSize, before.Filter)
			if err != nil {
				return fmt.Errorf("entries: %w", err)
			}
			list = l
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		e.failFrom(before, classifyError(err, model.OpLoad, cmd, e.user))
		return
	}

	next := e.begin()
	next.Balance = balance
	next.Categories = sortCategories(categories)
	next.Entries = mergePage(before.Entries, list, 1)
	next.Selected = pruneSelection(next.Selected, next.Entries.Items)
	next.Status = model.Loaded{}
	e.emit(next)

	e.reconciler.start(e.ctx, func(gen uint64) {
		e.queue.push(job{ev: reconcileDue{gen}})
	})
}

func (e *Engine) loadMore(ctx context.Context, cmd model.LoadMore) {
	cur := e.current
	if !cur.Entries.HasMore {
		return
	}
	e.loadPage(ctx, cmd, cur.Entries.Page+1)
}

// Загрузка страницы n: 1 заменяет список, n>1 только следующая по порядку
func (e *Engine) loadPage(ctx context.Context, cmd model.Command, page int) {
	before := e.current
	if page < 1 || (page > 1 && page != before.Entries.Page+1) {
		e.logger.Warn("page rejected",
			zap.Int("page", page),
			zap.Int("current", before.Entries.Page),
		)
		err := fmt.Errorf("page %d after %d: %w", page, before.Entries.Page, model.ErrPageOrder)
		e.fail(localError(err, model.OpLoadPage, cmd, strconv.Itoa(page)))
		return
	}

	loading := e.begin()
	loading.Status = model.Loading{Page: page}
	e.emit(loading)

	list, err := e.repo.ListEntries(ctx, e.user, page, e.pageSize, before.Filter)
	if err != nil {
		e.failFrom(before, classifyError(err, model.OpLoadPage, model.LoadPage{Page: page}, strconv.Itoa(page)))
		return
	}

	next := e.begin()
	next.Entries = mergePage(before.Entries, list, page)
	next.Selected = pruneSelection(next.Selected, next.Entries.Items)
	next.Status = model.Loaded{}
	e.emit(next)
}

// Смена фильтра: загруженный список сбрасывается, загрузка с первой страницы
func (e *Engine) setFilter(ctx context.Context, cmd model.SetFilter) {
	cur := e.current
	filter := model.Filter{
		Query:      cur.Filter.Query,
		CategoryID: cmd.Filter.CategoryID,
		Kinds:      slices.Clone(cmd.Filter.Kinds),
	}
	if filter.CategoryID == cur.Filter.CategoryID && slices.Equal(filter.Kinds, cur.Filter.Kinds) {
		return
	}
	e.reload(ctx, filter, model.OpFilter)
}

func (e *Engine) clearSearch(ctx context.Context) {
	e.search.cancel()
	filter := e.current.Filter
	filter.Query = ""
	e.reload(ctx, filter, model.OpSearch)
}

func (e *Engine) applyQuery(ctx context.Context, query string, cmd model.Command) {
	cur := e.current
	if query == cur.Filter.Query && cur.Entries.Page > 0 {
		return
	}
	filter := cur.Filter
	filter.Query = query
	e.reload(ctx, filter, opOf(cmd))
}

func (e *Engine) reload(ctx context.Context, filter model.Filter, op model.OpKind) {
	invalidated := e.begin()
	invalidated.Filter = filter
	invalidated.Entries = model.PaginatedList[model.LedgerEntry]{}
	invalidated.Selected = nil
	invalidated.Status = model.Loading{Page: 1}
	e.emit(invalidated)

	list, err := e.repo.ListEntries(ctx, e.user, 1, e.pageSize, filter)
	if err != nil {
		// повтор - загрузка первой страницы под уже примененным фильтром
		e.fail(classifyError(err, op, model.LoadPage{Page: 1}, ""))
		return
	}
	next := e.begin()
	next.Entries = mergePage(invalidated.Entries, list, 1)
	next.Status = model.Loaded{}
	e.emit(next)
}

// Слияние страницы: без дублей и без изменения порядка уже загруженных записей
func mergePage(cur model.PaginatedList[model.LedgerEntry], in model.PaginatedList[model.LedgerEntry], page int) model.PaginatedList[model.LedgerEntry] {
	out := model.PaginatedList[model.LedgerEntry]{
		Total:   in.Total,
		Page:    page,
		HasMore: in.HasMore,
	}
	var items []model.LedgerEntry
	seen := make(map[string]struct{}, len(cur.Items)+len(in.Items))
	if page > 1 {
		items = make([]model.LedgerEntry, 0, len(cur.Items)+len(in.Items))
		for _, v := range cur.Items {
			seen[v.ID] = struct{}{}
			items = append(items, v)
		}
	} else {
		items = make([]model.LedgerEntry, 0, len(in.Items))
	}
	for _, v := range in.Items {
		if _, ok := seen[v.ID]; ok {
			continue
		}
		seen[v.ID] = struct{}{}
		items = append(items, v)
	}
	out.Items = items
	return out
}

// Выбранные записи - подмножество загруженных
func pruneSelection(selected []string, items []model.LedgerEntry) []string {
	if len(selected) == 0 {
		return nil
	}
	loaded := make(map[string]struct{}, len(items))
	for _, v := range items {
		loaded[v.ID] = struct{}{}
	}
	out := make([]string, 0, len(selected))
	for _, id := range selected {
		if _, ok := loaded[id]; ok {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func sortCategories(in []model.Category) []model.Category {
	out := slices.Clone(in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

func (e *Engine) selectEntries(cmd model.Select) {
	cur := e.current
	selected := slices.Clone(cur.Selected)
	for _, id := range cmd.IDs {
		if cur.EntryIndex(id) < 0 {
			e.fail(localError(model.ErrNotLoaded, model.OpSelect, cmd, id))
			return
		}
		if !slices.Contains(selected, id) {
			selected = append(selected, id)
		}
	}
	next := e.begin()
	next.Selected = selected
	e.emit(next)
}

func (e *Engine) deselectEntries(cmd model.Deselect) {
	cur := e.current
	selected := make([]string, 0, len(cur.Selected))
	for _, id := range cur.Selected {
		if !slices.Contains(cmd.IDs, id) {
			selected = append(selected, id)
		}
	}
	next := e.begin()
	next.Selected = selected
	e.emit(next)
}

func (e *Engine) clearSelection() {
	next := e.begin()
	next.Selected = nil
	e.emit(next)
}

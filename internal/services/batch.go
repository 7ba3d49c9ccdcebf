package ledger

import (
	"context"
	"fmt"
	"maps"
	"slices"

	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Результат одного вызова BatchExecute
type chunkResult struct {
	index   []int
	results []model.OperationResult
	err     error
}

// Пакет независимых операций. Прогресс публикуется по мере завершения каждой,
// итоговый снапшот (Done) публикуется ровно один раз.
func (e *Engine) batch(ctx context.Context, cmd model.Batch) {
	cmd.Ops = slices.Clone(cmd.Ops)
	for i := range cmd.Ops {
		if cmd.Ops[i].Type == model.OP_ADD && cmd.Ops[i].Entry.UserID == "" {
			cmd.Ops[i].Entry.UserID = e.user
		}
	}
	total := len(cmd.Ops)
	progress := &model.BatchProgress{Total: total, Failed: map[int]*model.ClassifiedError{}}
	cur := e.current

	// проверки до отправки: цель загружена, нет второго изменения той же записи
	var runnable []int
	var claimed []*pendingMutation
	for i, op := range cmd.Ops {
		target := op.TargetID()
		if op.Type == model.OP_ADD {
			runnable = append(runnable, i)
			continue
		}
		if cur.EntryIndex(target) < 0 {
			err := fmt.Errorf("batch op %d %s: %w", i, target, model.ErrNotLoaded)
			progress.Failed[i] = localError(err, model.OpBatch, model.Batch{Ops: []model.Operation{op}}, target)
			progress.Completed++
			continue
		}
		m, ok := e.acquire(model.OpBatch, target, cur)
		if !ok {
			progress.Failed[i] = conflictError(model.OpBatch, model.Batch{Ops: []model.Operation{op}}, target)
			progress.Completed++
			continue
		}
		claimed = append(claimed, m)
		runnable = append(runnable, i)
	}
	defer func() {
		for _, m := range claimed {
			e.release(m)
		}
	}()

	e.logger.Info("batch started",
		zap.Int("total", total),
		zap.Int("runnable", len(runnable)),
	)
	if e.emitProgress(cmd, progress, nil) {
		return
	}

	chunks := chunkIndexes(runnable, e.batchChunk)
	results := make(chan chunkResult, len(chunks))
	g := &errgroup.Group{}
	g.SetLimit(e.batchLimit)
	go func() {
		for _, idx := range chunks {
			ops := make([]model.Operation, len(idx))
			for j, i := range idx {
				ops[j] = cmd.Ops[i]
			}
			g.Go(func() error {
				var res []model.OperationResult
				err := e.remote(model.OpBatch, func() (err error) {
					res, err = e.repo.BatchExecute(ctx, ops)
					return err
				})
				results <- chunkResult{index: idx, results: res, err: err}
				return nil
			})
		}
	}()

	for range chunks {
		r := <-results
		for j, i := range r.index {
			op := cmd.Ops[i]
			var opErr error
			var saved model.LedgerEntry
			switch {
			case r.err != nil:
				opErr = r.err
			case j >= len(r.results):
				opErr = fmt.Errorf("batch op %d: no result: %w", i, model.ErrServer)
			default:
				opErr = r.results[j].Err
				saved = r.results[j].Entry
			}

			progress.Completed++
			var applied *model.Snapshot
			if opErr != nil {
				progress.Failed[i] = classifyError(opErr, model.OpBatch, model.Batch{Ops: []model.Operation{op}}, op.TargetID())
			} else {
				progress.Succeeded = append(progress.Succeeded, i)
				applied = applyOperation(e.current, op, saved)
			}
			e.emitProgress(cmd, progress, applied)
		}
	}
	_ = g.Wait()
}

// Публикация прогресса; true если пакет завершен
func (e *Engine) emitProgress(cmd model.Batch, progress *model.BatchProgress, applied *model.Snapshot) bool {
	var next *model.Snapshot
	if applied != nil {
		next = applied
		next.Err = nil
	} else {
		next = e.begin()
	}

	// у каждого снапшота своя копия прогресса
	view := &model.BatchProgress{
		Total:     progress.Total,
		Completed: progress.Completed,
		Succeeded: slices.Clone(progress.Succeeded),
		Failed:    maps.Clone(progress.Failed),
	}
	next.Batch = view

	if progress.Completed < progress.Total {
		next.Status = model.Processing{Completed: progress.Completed, Total: progress.Total}
		e.emit(next)
		return false
	}

	view.Done = true
	slices.Sort(view.Succeeded)
	if len(progress.Failed) == 0 {
		next.Status = model.Succeeded{Op: model.OpBatch}
		e.emit(next)
		e.logger.Info("batch finished", zap.Int("total", progress.Total))
		return true
	}

	ce := batchError(cmd, progress)
	next.Err = ce
	next.Status = model.Failed{Err: ce}
	e.emit(next)
	e.logger.Warn("batch finished with failures",
		zap.Int("total", progress.Total),
		zap.Int("failed", len(progress.Failed)),
	)
	return true
}

// Итоговая ошибка пакета: класс первой по порядку неуспешной операции,
// повтор - только неуспешные операции
func batchError(cmd model.Batch, progress *model.BatchProgress) *model.ClassifiedError {
	failed := slices.Sorted(maps.Keys(progress.Failed))
	first := progress.Failed[failed[0]]
	retry := model.Batch{Ops: make([]model.Operation, 0, len(failed))}
	local := true
	for _, i := range failed {
		retry.Ops = append(retry.Ops, cmd.Ops[i])
		if !progress.Failed[i].Local {
			local = false
		}
	}
	return &model.ClassifiedError{
		Kind:       first.Kind,
		Validation: first.Validation,
		Message:    fmt.Sprintf("%d of %d operations failed. %s", len(failed), progress.Total, first.Message),
		Op:         model.OpBatch,
		TargetID:   first.TargetID,
		Local:      local,
		Command:    retry,
		Cause:      first,
	}
}

// Применить подтвержденную операцию к текущему снапшоту
func applyOperation(cur *model.Snapshot, op model.Operation, saved model.LedgerEntry) *model.Snapshot {
	next := cur.Clone()
	switch op.Type {
	case model.OP_ADD:
		if saved.ID == "" {
			saved = op.Entry
		}
		saved.Provisional = false
		next.Entries = insertEntry(cur.Entries, saved)
		next.Balance = cur.Balance + saved.Points
	case model.OP_UPDATE:
		idx := cur.EntryIndex(op.Entry.ID)
		if idx < 0 {
			return next
		}
		old := cur.Entries.Items[idx]
		if saved.ID == "" {
			saved = op.Entry
		}
		saved.Provisional = false
		next.Entries = replaceEntry(cur.Entries, op.Entry.ID, saved)
		next.Balance = cur.Balance - old.Points + saved.Points
		if saved.ID != op.Entry.ID {
			next.Selected = renameSelected(cur.Selected, op.Entry.ID, saved.ID)
		}
	case model.OP_DELETE:
		idx := cur.EntryIndex(op.Entry.ID)
		if idx < 0 {
			return next
		}
		old := cur.Entries.Items[idx]
		next.Entries = removeEntry(cur.Entries, op.Entry.ID)
		next.Balance = cur.Balance - old.Points
		next.Selected = pruneSelection(cur.Selected, next.Entries.Items)
	}
	return next
}

func chunkIndexes(idx []int, size int) [][]int {
	if size < 1 {
		size = 1
	}
	var out [][]int
	for start := 0; start < len(idx); start += size {
		end := min(start+size, len(idx))
		out = append(out, idx[start:end])
	}
	return out
}

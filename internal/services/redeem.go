package ledger

import (
	"context"
	"fmt"

	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (e *Engine) loadOptions(ctx context.Context, cmd model.LoadOptions) {
	options, err := e.repo.ListOptions(ctx)
	if err != nil {
		e.fail(classifyError(err, model.OpOptions, cmd, ""))
		return
	}
	next := e.begin()
	next.Options = options
	next.Status = model.Succeeded{Op: model.OpOptions}
	e.emit(next)
}

// Списание: проверка, оптимистичная транзакция и списание баланса, подтверждение или откат
func (e *Engine) redeem(ctx context.Context, cmd model.Redeem) {
	before := e.current
	option, ok := before.Option(cmd.OptionID)
	if !ok {
		ce := localError(fmt.Errorf("option %s: %w", cmd.OptionID, model.ErrNotLoaded), model.OpRedeem, cmd, cmd.OptionID)
		ce.Quantity = cmd.Quantity
		e.fail(ce)
		return
	}
	if err := option.Validate(cmd.Quantity, before.Balance, e.now()); err != nil {
		ce := classifyError(err, model.OpRedeem, cmd, option.ID)
		ce.Quantity = cmd.Quantity
		e.fail(ce)
		return
	}
	m, ok := e.acquire(model.OpRedeem, option.ID, before)
	if !ok {
		ce := conflictError(model.OpRedeem, cmd, option.ID)
		ce.Quantity = cmd.Quantity
		e.fail(ce)
		return
	}
	defer e.release(m)

	err := e.remote(model.OpRedeem, func() error {
		return e.repo.ValidateRedemption(ctx, e.user, option.ID, cmd.Quantity)
	})
	if err != nil {
		ce := classifyError(err, model.OpRedeem, cmd, option.ID)
		ce.Quantity = cmd.Quantity
		e.fail(ce)
		return
	}

	now := e.now()
	total := option.Cost * int64(cmd.Quantity)
	tnx := model.RedemptionTransaction{
		ID:          provisionalPrefix + uuid.NewString(),
		OptionID:    option.ID,
		Quantity:    cmd.Quantity,
		TotalCost:   total,
		Status:      model.PENDING,
		CreatedAt:   now,
		UpdatedAt:   now,
		Provisional: true,
	}
	m.provisional = tnx.ID

	next := e.begin()
	next.Transactions = prependTransaction(before.Transactions, tnx)
	next.Balance = before.Balance - total
	next.Status = model.PendingConfirmation{Op: model.OpRedeem, TargetID: option.ID}
	e.emit(next)

	var saved model.RedemptionTransaction
	err = e.remote(model.OpRedeem, func() (err error) {
		saved, err = e.repo.Redeem(ctx, e.user, option.ID, cmd.Quantity)
		return err
	})
	if err == nil && (saved.Status == model.FAILED || saved.Status == model.CANCELLED) {
		err = fmt.Errorf("transaction %s finished with status %d: %w", saved.ID, saved.Status, model.ErrServer)
	}
	if err != nil {
		ce := classifyError(err, model.OpRedeem, cmd, option.ID)
		ce.Quantity = cmd.Quantity
		ce.ProvisionalID = tnx.ID
		e.rollback(m, ce)
		return
	}
	saved.Provisional = false

	e.logger.Info("redeemed",
		zap.String("option", option.ID),
		zap.Int("quantity", cmd.Quantity),
		zap.String("transaction", saved.ID),
		zap.String("confirmation", saved.ConfirmationCode),
	)
	cur := e.current
	conf := e.begin()
	conf.Transactions = replaceTransaction(cur.Transactions, tnx.ID, saved)
	conf.Balance = cur.Balance + total - saved.TotalCost
	conf.Status = model.Succeeded{Op: model.OpRedeem}
	e.emit(conf)
}

func prependTransaction(list []model.RedemptionTransaction, tnx model.RedemptionTransaction) []model.RedemptionTransaction {
	out := make([]model.RedemptionTransaction, 0, len(list)+1)
	out = append(out, tnx)
	return append(out, list...)
}

func replaceTransaction(list []model.RedemptionTransaction, id string, tnx model.RedemptionTransaction) []model.RedemptionTransaction {
	out := make([]model.RedemptionTransaction, 0, len(list))
	for _, v := range list {
		if v.ID == id {
			out = append(out, tnx)
			continue
		}
		out = append(out, v)
	}
	return out
}

package ledger

import (
	"time"

	model "github.com/glkeru/loyalty/ledgersync/internal/models"
)

type ErrorResponse struct {
	Code          string `json:"code"`
	Kind          string `json:"kind"`
	Message       string `json:"message"`
	Op            string `json:"op"`
	TargetID      string `json:"targetId,omitempty"`
	ProvisionalID string `json:"provisionalId,omitempty"`
	Quantity      int    `json:"quantity,omitempty"`
	Retryable     bool   `json:"retryable"`
}

type PendingResponse struct {
	Op       string `json:"op"`
	TargetID string `json:"targetId,omitempty"`
}

type BatchResponse struct {
	Total     int                    `json:"total"`
	Completed int                    `json:"completed"`
	Progress  float64                `json:"progress"`
	Succeeded []int                  `json:"succeeded"`
	Failed    map[int]*ErrorResponse `json:"failed,omitempty"`
	Done      bool                   `json:"done"`
}

type SnapshotResponse struct {
	Status       string                                 `json:"status"`
	Pending      *PendingResponse                       `json:"pending,omitempty"`
	Entries      model.PaginatedList[model.LedgerEntry] `json:"entries"`
	Transactions []model.RedemptionTransaction          `json:"transactions"`
	Options      []model.RedemptionOption               `json:"options"`
	Balance      int64                                  `json:"balance"`
	Categories   []model.Category                       `json:"categories"`
	Filter       model.Filter                           `json:"filter"`
	Selected     []string                               `json:"selected"`
	Batch        *BatchResponse                         `json:"batch,omitempty"`
	Error        *ErrorResponse                         `json:"error,omitempty"`
	RealTime     bool                                   `json:"realTime"`
	LastUpdated  time.Time                              `json:"lastUpdated"`
	Version      uint64                                 `json:"version"`
}

func errorResponse(ce *model.ClassifiedError) *ErrorResponse {
	if ce == nil {
		return nil
	}
	msg := ce.Message
	if msg == "" {
		msg = ce.Error()
	}
	return &ErrorResponse{
		Code:          ce.Code(),
		Kind:          ce.Kind.String(),
		Message:       msg,
		Op:            ce.Op.String(),
		TargetID:      ce.TargetID,
		ProvisionalID: ce.ProvisionalID,
		Quantity:      ce.Quantity,
		Retryable:     ce.Retryable(),
	}
}

func NewSnapshotResponse(s model.Snapshot) SnapshotResponse {
	res := SnapshotResponse{
		Status:       model.StatusName(s.Status),
		Entries:      s.Entries,
		Transactions: s.Transactions,
		Options:      s.Options,
		Balance:      s.Balance,
		Categories:   s.Categories,
		Filter:       s.Filter,
		Selected:     s.Selected,
		Error:        errorResponse(s.Err),
		RealTime:     s.RealTime,
		LastUpdated:  s.LastUpdated,
		Version:      s.Version,
	}
	if p, ok := s.Status.(model.PendingConfirmation); ok {
		res.Pending = &PendingResponse{Op: p.Op.String(), TargetID: p.TargetID}
	}
	if s.Batch != nil {
		b := &BatchResponse{
			Total:     s.Batch.Total,
			Completed: s.Batch.Completed,
			Progress:  s.Batch.Progress(),
			Succeeded: s.Batch.Succeeded,
			Done:      s.Batch.Done,
		}
		if len(s.Batch.Failed) > 0 {
			b.Failed = make(map[int]*ErrorResponse, len(s.Batch.Failed))
			for i, ce := range s.Batch.Failed {
				b.Failed[i] = errorResponse(ce)
			}
		}
		res.Batch = b
	}
	return res
}

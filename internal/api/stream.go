package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	ws "github.com/coder/websocket"
	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
)

// Поток снапшотов пользователя через websocket.
// Первым отправляется текущий снапшот, затем каждый новый.
func (r *LedgerHandler) StreamHandler(w http.ResponseWriter, req *http.Request) {
	engine, err := r.engines.Get(mux.Vars(req)["user"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	conn, err := ws.Accept(w, req, &ws.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		r.Log("websocket accept", "StreamHandler", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	send := make(chan model.Snapshot, sendBufferSize)
	// подписка раньше чтения текущего снапшота, чтобы не потерять изменения;
	// снапшот, который придет позже более нового, отбросит writePump
	unsubscribe := engine.Subscribe(func(s model.Snapshot) {
		offer(send, s)
	})
	defer unsubscribe()
	offer(send, engine.Snapshot())

	go func() {
		defer cancel()
		readPump(ctx, conn)
	}()
	if err := writePump(ctx, conn, send); err != nil && ctx.Err() == nil {
		r.logger.Debug("stream closed", zap.String("user", mux.Vars(req)["user"]), zap.Error(err))
	}
	conn.Close(ws.StatusNormalClosure, "")
}

// Подписчик вызывается в цикле движка и не должен блокироваться:
// медленный клиент теряет снапшоты, но версия в следующем покажет пропуск.
func offer(send chan model.Snapshot, s model.Snapshot) bool {
	select {
	case send <- s:
		return true
	default:
		return false
	}
}

// Входящие сообщения не используются; ошибка чтения = закрытие соединения
func readPump(ctx context.Context, conn *ws.Conn) {
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}

// Версии снапшотов, отправленных клиенту, только растут
type versionFilter struct {
	sent bool
	last uint64
}

func (f *versionFilter) accept(s model.Snapshot) bool {
	if f.sent && s.Version <= f.last {
		return false
	}
	f.sent = true
	f.last = s.Version
	return true
}

func writePump(ctx context.Context, conn *ws.Conn, send <-chan model.Snapshot) error {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	var versions versionFilter
	for {
		select {
		case s := <-send:
			if !versions.accept(s) {
				continue
			}
			msg, err := json.Marshal(NewSnapshotResponse(s))
			if err != nil {
				return err
			}
			if err := conn.Write(ctx, ws.MessageText, msg); err != nil {
				return err
			}
		case <-ticker.C:
			if err := conn.Ping(ctx); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	config "github.com/glkeru/loyalty/ledgersync/internal/config"
	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const queue = "redeems"
const queueout = "confirms"

// Списания через очередь сервиса баллов: запрос в "redeems", ответ из "confirms"
type RedeemBroker struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	chin    *amqp.Channel
	timeout time.Duration
	waiters *waiters
	logger  *zap.Logger
	done    chan struct{}
}

func NewRedeemBroker(cfg config.RabbitConfig, logger *zap.Logger) (broker *RedeemBroker, err error) {
	conn, err := amqp.Dial(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("rabbit dial: %w: %w", model.ErrNetwork, err)
	}
	// канал для исходящих
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	_, err = ch.QueueDeclare(
		queue, // name
		false, // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	// канал для подтверждений
	chin, err := conn.Channel()
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	_, err = chin.QueueDeclare(
		queueout, // name
		false,    // durable
		false,    // delete when unused
		false,    // exclusive
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		chin.Close()
		ch.Close()
		conn.Close()
		return nil, err
	}
	msg, err := chin.Consume(
		queueout, // queue
		"",       // consumer
		true,     // auto-ack
		false,    // exclusive
		false,    // no-local
		false,    // no-wait
		nil,      // args
	)
	if err != nil {
		chin.Close()
		ch.Close()
		conn.Close()
		return nil, err
	}

	timeout := cfg.ConfirmTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	broker = &RedeemBroker{conn, ch, chin, timeout, newWaiters(), logger, make(chan struct{})}
	go broker.listen(msg)
	return broker, nil
}

func (r *RedeemBroker) Close() {
	r.chin.Close()
	r.ch.Close()
	r.conn.Close()
	<-r.done
}

// Разбор подтверждений
func (r *RedeemBroker) listen(msg <-chan amqp.Delivery) {
	defer close(r.done)
	for d := range msg {
		if err := r.waiters.deliver(d.Body); err != nil {
			r.logger.Warn("bad redeem confirm", zap.ByteString("body", d.Body), zap.Error(err))
		}
	}
	r.waiters.closeAll()
}

// Запрос списания и ожидание подтверждения
func (r *RedeemBroker) RequestRedeem(ctx context.Context, req model.RedeemRequest) (model.RedeemConfirm, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return model.RedeemConfirm{}, err
	}

	wait, err := r.waiters.register(req.RedeemId)
	if err != nil {
		return model.RedeemConfirm{}, err
	}
	defer r.waiters.remove(req.RedeemId)

	err = r.ch.PublishWithContext(ctx,
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: req.RedeemId,
			Body:          body,
		})
	if err != nil {
		return model.RedeemConfirm{}, fmt.Errorf("publish redeem %s: %w: %w", req.RedeemId, model.ErrNetwork, err)
	}
	return await(ctx, wait, req.RedeemId, r.timeout)
}

func await(ctx context.Context, wait <-chan model.RedeemConfirm, id string, timeout time.Duration) (model.RedeemConfirm, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case confirm, ok := <-wait:
		if !ok {
			return model.RedeemConfirm{}, fmt.Errorf("redeem %s: confirms closed: %w", id, model.ErrNetwork)
		}
		return confirm, nil
	case <-timer.C:
		return model.RedeemConfirm{}, fmt.Errorf("redeem %s: no confirm in %s: %w", id, timeout, model.ErrTimeout)
	case <-ctx.Done():
		return model.RedeemConfirm{}, fmt.Errorf("redeem %s: %w: %w", id, model.ErrTimeout, ctx.Err())
	}
}

// Ожидающие подтверждения списания по RedeemId
type waiters struct {
	mu     sync.Mutex
	wait   map[string]chan model.RedeemConfirm
	closed bool
}

func newWaiters() *waiters {
	return &waiters{wait: make(map[string]chan model.RedeemConfirm)}
}

// После остановки чтения подтверждений новые запросы не ждут таймаута
func (w *waiters) register(id string) (<-chan model.RedeemConfirm, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, fmt.Errorf("redeem %s: confirms closed: %w", id, model.ErrNetwork)
	}
	ch := make(chan model.RedeemConfirm, 1)
	w.wait[id] = ch
	return ch, nil
}

func (w *waiters) remove(id string) {
	w.mu.Lock()
	delete(w.wait, id)
	w.mu.Unlock()
}

// Подтверждение без ожидающего (например, после таймаута) отбрасывается
func (w *waiters) deliver(body []byte) error {
	var confirm model.RedeemConfirm
	if err := json.Unmarshal(body, &confirm); err != nil {
		return err
	}
	if confirm.RedeemId == "" {
		return fmt.Errorf("empty redeemId")
	}
	w.mu.Lock()
	ch, ok := w.wait[confirm.RedeemId]
	delete(w.wait, confirm.RedeemId)
	w.mu.Unlock()
	if ok {
		ch <- confirm
	}
	return nil
}

func (w *waiters) closeAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	for id, ch := range w.wait {
		close(ch)
		delete(w.wait, id)
	}
}

package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/product-catalog/internal/cfg"
	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/jitter"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// NotifyConn - соединение, на котором выполняется LISTEN. Реализуется *pgx.Conn.
type NotifyConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

// Dialer открывает новое соединение для LISTEN.
type Dialer func(ctx context.Context) (NotifyConn, error)

// PgxDialer подключается к PostgreSQL отдельным соединением вне пула.
func PgxDialer(dsn string) Dialer {
	return func(ctx context.Context) (NotifyConn, error) {
		conn, err := pgx.Connect(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

// OutboxWorker переносит события из outbox в брокер. Просыпается по NOTIFY и
// не реже раза в PollInterval, чтобы вернуть зависшие события и подобрать те,
// уведомление о которых потерялось. Поток уведомлений опрос не откладывает.
type OutboxWorker struct {
	repo     usecase.OutboxRepository
	logger   logger.Logger
	producer usecase.MessageProducer
	dial     Dialer
	channel  string
	cfg      *cfg.OutboxCfg

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	dial Dialer,
	channel string,
	cfg *cfg.OutboxCfg,
) *OutboxWorker {
	return &OutboxWorker{
		repo:     repo,
		logger:   logger,
		producer: producer,
		dial:     dial,
		channel:  channel,
		cfg:      cfg,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		// Обрабатываем "остатки" при старте
		w.logger.Infof("Draining pending outbox events on startup...")
		w.drain(ctx)

		w.listen(ctx)
		w.logger.Infof("Outbox worker stopped")
	}()
}

// Stop останавливает worker и ждёт завершения текущей пачки.
func (w *OutboxWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return e.Wrap("OutboxWorker.Stop", ctx.Err())
	}
}

func (w *OutboxWorker) listen(ctx context.Context) {
	var (
		conn    NotifyConn
		attempt int
	)
	defer func() {
		if conn != nil {
			_ = conn.Close(context.WithoutCancel(ctx))
		}
	}()

	nextPoll := time.Now().Add(w.cfg.PollInterval)

	for ctx.Err() == nil {
		if conn == nil {
			c, err := w.connect(ctx)
			if err != nil {
				delay := jitter.ExponentialBackoff(w.cfg.ReconnectBase, w.cfg.ReconnectMax, attempt, jitter.DefaultJitter)
				attempt++
				w.logger.Warnf("LISTEN connect failed (attempt %d), retry in %s: %v", attempt, delay, err)
				if !sleep(ctx, delay) {
					return
				}
				continue
			}
			conn, attempt = c, 0

			// пока соединения не было, уведомления могли потеряться
			w.drain(ctx)
		}

		waitCtx, cancel := context.WithDeadline(ctx, nextPoll)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		switch {
		case ctx.Err() != nil:
			return
		case errors.Is(err, context.DeadlineExceeded):
			// время опроса, см. ниже
		case err != nil:
			w.logger.Warnf("Connection lost: %v. Reconnecting...", err)
			_ = conn.Close(ctx)
			conn = nil
			continue
		case notif != nil && notif.Channel == w.channel:
			w.logger.Debugf("Received outbox notification, draining outbox events")
			w.drain(ctx)
		}

		if !time.Now().Before(nextPoll) {
			w.poll(ctx)
			nextPoll = time.Now().Add(w.cfg.PollInterval)
		}
	}
}

func (w *OutboxWorker) connect(ctx context.Context) (NotifyConn, error) {
	conn, err := w.dial(ctx)
	if err != nil {
		return nil, e.Wrap("failed to connect for LISTEN", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+w.channel); err != nil {
		_ = conn.Close(ctx)
		return nil, e.Wrap("failed to LISTEN", err)
	}

	w.logger.Infof("Subscribed to '%s' channel", w.channel)
	return conn, nil
}

// poll возвращает зависшие события в очередь и обрабатывает всё, что ожидает отправки.
func (w *OutboxWorker) poll(ctx context.Context) {
	released, err := w.repo.ReleaseStale(ctx, int(w.cfg.StaleTimeout.Seconds()))
	if err != nil {
		w.logger.Warnf("release stale outbox events failed: %v", err)
	} else if released > 0 {
		w.logger.Infof("Released %d stale outbox events", released)
	}

	w.drain(ctx)
}

func (w *OutboxWorker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("Batch processing failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.cfg.BatchSize)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			if isRetryableError(err) {
				// остаётся в processing до ReleaseStale
				w.logger.Warnf("publish event %s failed: %v", event.EventID, err)
				continue
			}

			w.logger.Errorf(err, "publish event %s failed permanently, giving up", event.EventID)
			if err := w.repo.MarkAsFailed(ctx, event.ID, err.Error()); err != nil {
				w.logger.Warnf("mark failed failed: %v", err)
			}
			continue
		}
		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
	}

	return true, nil
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	err := w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(event.ProductID, event.EventType, event.Payload))
	if err != nil {
		if isRetryableError(err) {
			return e.Wrap("Temporary broker failure, will retry", err)
		}
		return e.Wrap("Permanent broker failure", err)
	}

	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}

package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/product-catalog/internal/cfg"
	"github.com/DRSN-tech/product-catalog/internal/usecase"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memOutbox struct {
	mu       sync.Mutex
	events   []*usecase.OutboxEvent
	released int
	reasons  []string
}

func (m *memOutbox) add(eventType usecase.OutboxEventType) *usecase.OutboxEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev := usecase.NewOutboxEvent(uuid.NewString(), eventType, uuid.New(), []byte("payload"), time.Now())
	ev.ID = int64(len(m.events) + 1)
	m.events = append(m.events, ev)
	return ev
}

func (m *memOutbox) Create(_ context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	return event, nil
}

func (m *memOutbox) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]*usecase.OutboxEvent, 0, limit)
	for _, ev := range m.events {
		if ev.Status == usecase.Pending && len(res) < limit {
			ev.Status = usecase.Processing
			res = append(res, ev)
		}
	}
	return res, nil
}

func (m *memOutbox) MarkAsProcessed(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ev := range m.events {
		if ev.ID == id {
			ev.Status = usecase.Processed
		}
	}
	return nil
}

func (m *memOutbox) MarkAsFailed(_ context.Context, id int64, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ev := range m.events {
		if ev.ID == id {
			ev.Status = usecase.Failed
			m.reasons = append(m.reasons, reason)
		}
	}
	return nil
}

func (m *memOutbox) releasedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

func (m *memOutbox) ReleaseStale(_ context.Context, _ int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, ev := range m.events {
		if ev.Status == usecase.Processing {
			ev.Status = usecase.Pending
			n++
		}
	}
	m.released += int(n)
	return n, nil
}

func (m *memOutbox) statuses() []usecase.OutboxStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]usecase.OutboxStatus, 0, len(m.events))
	for _, ev := range m.events {
		res = append(res, ev.Status)
	}
	return res
}

type recordingProducer struct {
	mu       sync.Mutex
	sent     []*usecase.WriteRawMessageReq
	failures int
	err      error
}

func (p *recordingProducer) WriteRawMessage(_ context.Context, req *usecase.WriteRawMessageReq) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failures > 0 {
		p.failures--
		if p.err != nil {
			return p.err
		}
		return errors.New("dial tcp: connection refused")
	}
	p.sent = append(p.sent, req)
	return nil
}

func (p *recordingProducer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

type fakeConn struct {
	notifications chan *pgconn.Notification
	listened      chan string
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		notifications: make(chan *pgconn.Notification, 4),
		listened:      make(chan string, 4),
	}
}

func (c *fakeConn) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	c.listened <- sql
	return pgconn.NewCommandTag("LISTEN"), nil
}

func (c *fakeConn) WaitForNotification(ctx context.Context) (*pgconn.Notification, error) {
	select {
	case n := <-c.notifications:
		return n, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *fakeConn) Close(_ context.Context) error { return nil }

func testOutboxCfg() *cfg.OutboxCfg {
	return &cfg.OutboxCfg{
		BatchSize:     2,
		StaleTimeout:  time.Minute,
		ReconnectBase: time.Millisecond,
		ReconnectMax:  5 * time.Millisecond,
		PollInterval:  time.Hour,
	}
}

func TestOutboxWorker_DrainsOnStartAndOnNotify(t *testing.T) {
	outbox := &memOutbox{}
	for i := 0; i < 3; i++ {
		outbox.add(usecase.ProductCreated)
	}

	producer := &recordingProducer{}
	conn := newFakeConn()
	dial := func(context.Context) (NotifyConn, error) { return conn, nil }

	w := NewOutboxWorker(outbox, logger.Nop(), producer, dial, "outbox_pending", testOutboxCfg())
	w.Start(context.Background())
	t.Cleanup(func() { _ = w.Stop(context.Background()) })

	assert.Eventually(t, func() bool { return producer.count() == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "LISTEN outbox_pending", <-conn.listened)

	outbox.add(usecase.ProductUpdated)
	conn.notifications <- &pgconn.Notification{Channel: "outbox_pending"}

	assert.Eventually(t, func() bool { return producer.count() == 4 }, time.Second, 5*time.Millisecond)
	for _, s := range outbox.statuses() {
		assert.Equal(t, usecase.Processed, s)
	}

	producer.mu.Lock()
	last := producer.sent[3]
	producer.mu.Unlock()
	assert.Equal(t, usecase.ProductUpdated, last.EventType)
}

func TestOutboxWorker_ReconnectsWithBackoff(t *testing.T) {
	outbox := &memOutbox{}
	conn := newFakeConn()

	var (
		mu    sync.Mutex
		dials int
	)
	dial := func(context.Context) (NotifyConn, error) {
		mu.Lock()
		defer mu.Unlock()
		dials++
		if dials < 3 {
			return nil, errors.New("connection refused")
		}
		return conn, nil
	}

	w := NewOutboxWorker(outbox, logger.Nop(), &recordingProducer{}, dial, "outbox_pending", testOutboxCfg())
	w.Start(context.Background())

	select {
	case sql := <-conn.listened:
		assert.Equal(t, "LISTEN outbox_pending", sql)
	case <-time.After(time.Second):
		t.Fatal("worker did not subscribe after retries")
	}

	require.NoError(t, w.Stop(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, dials)
}

func TestOutboxWorker_FailedEventStaysProcessing(t *testing.T) {
	outbox := &memOutbox{}
	outbox.add(usecase.ProductDeleted)
	producer := &recordingProducer{failures: 1}

	w := NewOutboxWorker(outbox, logger.Nop(), producer, nil, "outbox_pending", testOutboxCfg())
	w.drain(context.Background())

	assert.Equal(t, []usecase.OutboxStatus{usecase.Processing}, outbox.statuses())

	w.poll(context.Background())

	assert.Equal(t, 1, outbox.released)
	assert.Equal(t, []usecase.OutboxStatus{usecase.Processed}, outbox.statuses())
	assert.Equal(t, 1, producer.count())
}

func TestOutboxWorker_PermanentFailureIsNotRetried(t *testing.T) {
	outbox := &memOutbox{}
	outbox.add(usecase.ProductCreated)
	producer := &recordingProducer{failures: 1, err: errors.New("[10] Message Size Too Large")}

	w := NewOutboxWorker(outbox, logger.Nop(), producer, nil, "outbox_pending", testOutboxCfg())
	w.drain(context.Background())

	assert.Equal(t, []usecase.OutboxStatus{usecase.Failed}, outbox.statuses())
	require.Len(t, outbox.reasons, 1)
	assert.Contains(t, outbox.reasons[0], "Message Size Too Large")

	w.poll(context.Background())

	assert.Zero(t, outbox.released)
	assert.Equal(t, []usecase.OutboxStatus{usecase.Failed}, outbox.statuses())
	assert.Zero(t, producer.count())
}

func TestOutboxWorker_ReleasesStaleUnderSteadyNotifications(t *testing.T) {
	outbox := &memOutbox{}
	stuck := outbox.add(usecase.ProductUpdated)
	stuck.Status = usecase.Processing

	producer := &recordingProducer{}
	conn := newFakeConn()
	dial := func(context.Context) (NotifyConn, error) { return conn, nil }

	config := testOutboxCfg()
	config.PollInterval = 30 * time.Millisecond

	w := NewOutboxWorker(outbox, logger.Nop(), producer, dial, "outbox_pending", config)
	w.Start(context.Background())
	t.Cleanup(func() { _ = w.Stop(context.Background()) })

	done := make(chan struct{})
	t.Cleanup(func() { close(done) })
	go func() {
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case conn.notifications <- &pgconn.Notification{Channel: "outbox_pending"}:
				default:
				}
			}
		}
	}()

	assert.Eventually(t, func() bool { return outbox.releasedCount() >= 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return producer.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		st := outbox.statuses()
		return len(st) == 1 && st[0] == usecase.Processed
	}, time.Second, 5*time.Millisecond)
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(errors.New("read: Connection Reset by peer")))
	assert.False(t, isRetryableError(errors.New("message too large")))
	assert.False(t, isRetryableError(nil))
}

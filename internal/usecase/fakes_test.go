package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/DRSN-tech/product-catalog/pkg/filter"
	"github.com/DRSN-tech/product-catalog/pkg/pagination"
	"github.com/google/uuid"
)

var errStorage = errors.New("storage unavailable")

type uowKey struct{}

// fakeUoW копит изменения до Commit, как настоящая транзакция.
type fakeUoW struct {
	mu        sync.Mutex
	pending   []func()
	begins    int
	commits   int
	rollbacks int
	commitErr error
}

func (u *fakeUoW) Begin(ctx context.Context) (context.Context, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.begins++
	u.pending = nil
	return context.WithValue(ctx, uowKey{}, u), nil
}

func (u *fakeUoW) Commit(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.commitErr != nil {
		return u.commitErr
	}

	for _, apply := range u.pending {
		apply()
	}
	u.pending = nil
	u.commits++
	return nil
}

func (u *fakeUoW) Rollback(_ context.Context) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.pending = nil
	u.rollbacks++
}

// stage откладывает изменение до Commit, если в контексте есть unit of work.
func stage(ctx context.Context, apply func()) {
	u, ok := ctx.Value(uowKey{}).(*fakeUoW)
	if !ok {
		apply()
		return
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.pending = append(u.pending, apply)
}

// fakeRepo - репозиторий в памяти, применяющий filter.Predicate через Match.
type fakeRepo[T filter.Record] struct {
	mu     sync.Mutex
	items  []T
	idOf   func(T) uuid.UUID
	getErr error
}

func newFakeRepo[T filter.Record](idOf func(T) uuid.UUID, items ...T) *fakeRepo[T] {
	return &fakeRepo[T]{idOf: idOf, items: items}
}

func (r *fakeRepo[T]) Exists(_ context.Context, pred filter.Predicate) (bool, error) {
	if r.getErr != nil {
		return false, r.getErr
	}

	return len(r.matching(pred)) > 0, nil
}

func (r *fakeRepo[T]) GetOne(_ context.Context, pred filter.Predicate) (*T, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}

	found := r.matching(pred)
	if len(found) == 0 {
		return nil, nil
	}

	item := found[0]
	return &item, nil
}

func (r *fakeRepo[T]) Query(pred filter.Predicate) pagination.Source[T] {
	return &fakeSource[T]{repo: r, pred: pred}
}

func (r *fakeRepo[T]) Add(ctx context.Context, entity *T) error {
	item := *entity
	stage(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.items = append(r.items, item)
	})
	return nil
}

func (r *fakeRepo[T]) Update(ctx context.Context, entity *T) error {
	item := *entity
	stage(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i := range r.items {
			if r.idOf(r.items[i]) == r.idOf(item) {
				r.items[i] = item
			}
		}
	})
	return nil
}

func (r *fakeRepo[T]) all() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]T(nil), r.items...)
}

func (r *fakeRepo[T]) matching(pred filter.Predicate) []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]T, 0)
	for _, item := range r.items {
		if pred.Match(item) {
			res = append(res, item)
		}
	}
	return res
}

type fakeSource[T filter.Record] struct {
	repo *fakeRepo[T]
	pred filter.Predicate
}

func (s *fakeSource[T]) Count(ctx context.Context) (int, error) {
	if s.repo.getErr != nil {
		return 0, s.repo.getErr
	}

	return pagination.SliceSource[T](s.repo.matching(s.pred)).Count(ctx)
}

func (s *fakeSource[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	if s.repo.getErr != nil {
		return nil, s.repo.getErr
	}

	return pagination.SliceSource[T](s.repo.matching(s.pred)).Fetch(ctx, offset, limit)
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []*OutboxEvent
	err    error
}

func (o *fakeOutbox) Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	if o.err != nil {
		return nil, o.err
	}

	stage(ctx, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		event.ID = int64(len(o.events) + 1)
		o.events = append(o.events, event)
	})
	return event, nil
}

func (o *fakeOutbox) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*OutboxEvent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	res := make([]*OutboxEvent, 0, limit)
	for _, ev := range o.events {
		if ev.Status == Pending && len(res) < limit {
			ev.Status = Processing
			res = append(res, ev)
		}
	}
	return res, nil
}

func (o *fakeOutbox) MarkAsProcessed(_ context.Context, id int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, ev := range o.events {
		if ev.ID == id {
			ev.Status = Processed
		}
	}
	return nil
}

func (o *fakeOutbox) MarkAsFailed(_ context.Context, id int64, _ string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, ev := range o.events {
		if ev.ID == id {
			ev.Status = Failed
		}
	}
	return nil
}

func (o *fakeOutbox) ReleaseStale(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

func (o *fakeOutbox) types() []OutboxEventType {
	o.mu.Lock()
	defer o.mu.Unlock()

	res := make([]OutboxEventType, 0, len(o.events))
	for _, ev := range o.events {
		res = append(res, ev.EventType)
	}
	return res
}

type fakeSnapshots struct {
	key         string
	data        []byte
	contentType string
	err         error
}

func (s *fakeSnapshots) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}

	s.key, s.data, s.contentType = key, data, contentType
	return key, nil
}

func productID(p domain.Product) uuid.UUID { return p.ID }

func categoryID(c domain.ProductCategory) uuid.UUID { return c.ID }

// Package closer закрывает ресурсы приложения в обратном порядке регистрации.
package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/product-catalog/pkg/logger"
)

// successIdx - индекс, который возвращается, если все ресурсы закрылись в отведённое время
const successIdx = -1

// Func - сигнатура функции закрытия ресурса.
type Func func(ctx context.Context) error

type entry struct {
	name string
	fn   Func
}

// Closer обеспечивает потокобезопасное закрытие ресурсов.
type Closer struct {
	entries       []entry
	mu            sync.Mutex
	once          sync.Once
	err           error
	forcedTimeout time.Duration
	logger        logger.Logger
}

// NewCloser создает новый экземпляр Closer.
// forcedTimeout - время на принудительное закрытие того, что не успело закрыться до отмены контекста Close.
func NewCloser(forcedTimeout time.Duration, logger logger.Logger) *Closer {
	const defaultForcedTimeout = 2 * time.Second

	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{
		forcedTimeout: forcedTimeout,
		logger:        logger,
	}
}

// Add регистрирует функцию закрытия под именем, которое попадёт в логи и ошибки.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry{name: name, fn: f})
}

// AddSimple регистрирует функцию без контекста и ошибки, например pool.Close.
func (c *Closer) AddSimple(name string, f func()) {
	c.Add(name, func(context.Context) error {
		f()
		return nil
	})
}

// Close последовательно закрывает ресурсы (LIFO). Повторные вызовы возвращают результат первого.
// Если ctx отменяется раньше, оставшиеся ресурсы закрываются параллельно с forcedTimeout.
func (c *Closer) Close(ctx context.Context) error {
	c.once.Do(func() {
		c.mu.Lock()
		entries := c.entries
		c.mu.Unlock()

		stopIdx, errs := c.gracefulClose(ctx, entries)
		if stopIdx == successIdx {
			c.err = errors.Join(errs...)
			return
		}

		c.logger.Warnf("shutdown timed out. forcing %d remaining resource(s)", stopIdx+1)
		errs = append(errs, c.forcedClose(entries[:stopIdx+1])...)
		c.err = fmt.Errorf("shutdown interrupted after %d/%d resources: %w",
			len(entries)-1-stopIdx, len(entries), errors.Join(errs...))
	})

	return c.err
}

// gracefulClose закрывает ресурсы по одному с конца списка.
// При отмене ctx возвращает индекс ресурса, который не успел закрыться.
func (c *Closer) gracefulClose(ctx context.Context, entries []entry) (int, []error) {
	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		var (
			en   = entries[i]
			done = make(chan error, 1)
		)

		go func() {
			done <- en.fn(ctx)
		}()

		select {
		case err := <-done:
			if err != nil {
				c.logger.Errorf(err, "failed to close %s", en.name)
				errs = append(errs, fmt.Errorf("%s: %w", en.name, err))
				continue
			}
			c.logger.Debugf("%s closed", en.name)
		case <-ctx.Done():
			return i, errs
		}
	}

	return successIdx, errs
}

// forcedClose параллельно запускает оставшиеся функции с собственным таймаутом.
func (c *Closer) forcedClose(entries []entry) []error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	for _, en := range entries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := en.fn(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("[forced] %s: %w", en.name, err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errs
}

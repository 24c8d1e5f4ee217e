// Package jitter добавляет случайность в интервалы повторов, чтобы клиенты
// не переподключались к брокеру или базе одновременно.
package jitter

import (
	"context"
	"math/rand/v2"
	"time"
)

// DefaultJitter - стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

// Duration возвращает d, увеличенную на случайную долю: результат в [d, d*(1+jitterFactor)].
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	return DurationWithRand(d, jitterFactor, rand.Float64)
}

// DurationWithRand то же, что Duration, но с заданным источником чисел из [0, 1).
func DurationWithRand(d time.Duration, jitterFactor float64, float func() float64) time.Duration {
	if d <= 0 || jitterFactor <= 0 {
		return d
	}
	return d + time.Duration(float()*jitterFactor*float64(d))
}

// Backoff возвращает base*2^attempt, ограниченное max, без джиттера.
func Backoff(base, max time.Duration, attempt int) time.Duration {
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff >= max {
			return max
		}
	}
	if backoff > max {
		return max
	}
	return backoff
}

// ExponentialBackoff - Backoff с джиттером. attempt считается с нуля.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	return Duration(Backoff(base, max, attempt), jitterFactor)
}

// Retry вызывает fn до attempts раз, выдерживая паузу ExponentialBackoff между попытками.
// onRetry, если задан, получает номер неудачной попытки и её ошибку.
// Возвращает последнюю ошибку fn или ошибку контекста.
func Retry(ctx context.Context, attempts int, base, max time.Duration, fn func(ctx context.Context) error, onRetry func(attempt int, err error)) error {
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}

		t := time.NewTimer(ExponentialBackoff(base, max, attempt, DefaultJitter))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	return err
}

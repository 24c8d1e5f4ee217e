// Package logger предоставляет единый интерфейс логирования для всех слоёв сервиса.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger - минимальный интерфейс логгера, от которого зависят usecase, репозитории и инфраструктура.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
}

// ZerologLogger реализует Logger поверх zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewLogger создаёт логгер. В режиме development вывод человекочитаемый, иначе JSON.
func NewLogger(env string) *ZerologLogger {
	var out io.Writer = os.Stdout
	if env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	level := zerolog.InfoLevel
	if env == "development" {
		level = zerolog.DebugLevel
	}

	return NewWithWriter(out, level)
}

// NewWithWriter создаёт логгер с произвольным writer (используется в тестах).
func NewWithWriter(w io.Writer, level zerolog.Level) *ZerologLogger {
	return &ZerologLogger{
		log: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// Nop возвращает логгер, который ничего не пишет.
func Nop() *ZerologLogger {
	return &ZerologLogger{log: zerolog.Nop()}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msg(fmt.Sprintf(format, args...))
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msg(fmt.Sprintf(format, args...))
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msg(fmt.Sprintf(format, args...))
}

func (l *ZerologLogger) Errorf(err error, format string, args ...any) {
	l.log.Error().Err(err).Msg(fmt.Sprintf(format, args...))
}

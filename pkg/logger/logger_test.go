package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestZerologLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, zerolog.InfoLevel)

	log.Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	log.Infof("product %s created", "abc")
	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), "product abc created")
}

func TestZerologLoggerErrorIncludesCause(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, zerolog.DebugLevel)

	log.Errorf(errors.New("boom"), "failed to commit")

	out := buf.String()
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, "failed to commit")
}

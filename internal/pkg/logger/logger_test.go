package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("qualquer"))
}

func TestZapLogger_WritesFieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &ZapLogger{zl: zap.New(core)}

	l.Info("estoque atualizado", map[string]interface{}{"product_id": 3})
	l.Error("falha no envio", errors.New("timeout"))

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "estoque atualizado", entries[0].Message)
		assert.Equal(t, int64(3), entries[0].ContextMap()["product_id"])
		assert.Equal(t, "timeout", entries[1].ContextMap()["error"])
	}
}

func TestNamed_KeepsNonZapLoggers(t *testing.T) {
	base := NewNop()
	assert.NotNil(t, Named(base, "dialog"))
}

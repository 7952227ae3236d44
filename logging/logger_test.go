package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLoggerRoutesPackageHelpers(t *testing.T) {
	prev := Log
	defer SetLogger(prev)

	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))

	Info("role created", zap.String("roleID", "r1"))
	Debug("hidden")
	WithContext(zap.String("userID", "u1")).Warn("slow lock")

	entries := logs.All()
	assert.Len(t, entries, 2)
	assert.Equal(t, "role created", entries[0].Message)
	assert.Equal(t, "r1", entries[0].ContextMap()["roleID"])
	assert.Equal(t, "u1", entries[1].ContextMap()["userID"])
}

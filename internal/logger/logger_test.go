package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		env, level string
		want       zapcore.Level
	}{
		{"production", "warn", zapcore.WarnLevel},
		{"development", "debug", zapcore.DebugLevel},
		{"development", "nonsense", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		log, err := New(tt.env, tt.level)
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(tt.want), "%s/%s", tt.env, tt.level)
		assert.False(t, log.Core().Enabled(tt.want-1), "%s/%s", tt.env, tt.level)
	}
}

package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingPublisher struct{ Nop }

func (failingPublisher) PublishJSON(context.Context, string, any) error {
	return errors.New("channel closed")
}

func TestEmit(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := zap.New(core)

	t.Run("Nop publisher is silent", func(t *testing.T) {
		Emit(context.Background(), Nop{}, log, ReservationCreated, map[string]string{"id": "r1"})
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("Failure is logged, not returned", func(t *testing.T) {
		Emit(context.Background(), failingPublisher{}, log, MembershipJoined, nil)
		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "publish event failed", entry.Message)
		assert.Equal(t, MembershipJoined, entry.ContextMap()["key"])
	})
}

package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWithContextAndFromContext(t *testing.T) {
	log := zap.NewExample()
	ctx := WithContext(context.Background(), log)

	assert.Same(t, log, FromContext(ctx))
}

func TestFromContextReturnsNopWhenMissing(t *testing.T) {
	log := FromContext(context.Background())
	assert.NotNil(t, log)
}

func TestWithRequestID(t *testing.T) {
	log := zap.NewExample()
	ctx, enriched := WithRequestID(context.Background(), log, "req-123")

	assert.NotNil(t, enriched)
	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Same(t, enriched, FromContext(ctx))
}

func TestWithOrgID(t *testing.T) {
	log := zap.NewExample()
	ctx, enriched := WithOrgID(context.Background(), log, "org-42")

	assert.NotNil(t, enriched)
	assert.Equal(t, "org-42", GetOrgID(ctx))
}

func TestWithUserID(t *testing.T) {
	log := zap.NewExample()
	ctx, enriched := WithUserID(context.Background(), log, "user-7")

	assert.NotNil(t, enriched)
	assert.Equal(t, "user-7", GetUserID(ctx))
}

func TestGettersReturnEmptyWhenMissing(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetOrgID(ctx))
	assert.Empty(t, GetUserID(ctx))
}

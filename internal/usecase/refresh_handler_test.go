package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ShowPulse/pkg/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)
	return log
}

func TestRefreshHandlerTriggersRebuild(t *testing.T) {
	src := &fakeQuoteSource{quotes: testQuotes()}
	r, store := newTestRebuilder(src, nil)
	h := NewRefreshHandler("showpulse.refresh", r, newTestLogger(t))

	assert.Equal(t, "showpulse.refresh", h.Topic())

	reqAt := time.Now().UTC().Add(-time.Second).Format(time.RFC3339)
	err := h.Handle(context.Background(), []byte(`{"reason":"scheduled","source":"cron","requested_at":"`+reqAt+`"}`))
	require.NoError(t, err)
	require.NotNil(t, store.Latest())
	assert.Equal(t, 1, src.callCount())
}

func TestRefreshHandlerMalformedPayloadStillRebuilds(t *testing.T) {
	src := &fakeQuoteSource{quotes: testQuotes()}
	r, store := newTestRebuilder(src, nil)
	h := NewRefreshHandler("showpulse.refresh", r, newTestLogger(t))

	err := h.Handle(context.Background(), []byte("not json"))
	require.NoError(t, err)
	assert.NotNil(t, store.Latest())
}

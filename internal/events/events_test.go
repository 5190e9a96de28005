package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventEnvelope(t *testing.T) {
	t.Parallel()

	ev := New(Created, "p1", "admin", map[string]any{"name": "Widget"})
	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "created", got["type"])
	assert.Equal(t, "p1", got["id"])
	assert.Equal(t, "admin", got["actor"])
	assert.NotZero(t, got["timestamp"])
}

func TestNop(t *testing.T) {
	t.Parallel()

	var p Publisher = Nop{}
	assert.NoError(t, p.PublishEvent(context.Background(), TopicOrders, "k", New(Deleted, "k", "", nil)))
	assert.NoError(t, p.Close())
}

func TestProducer_PublishToUnreachableBroker(t *testing.T) {
	t.Parallel()

	p := NewProducer([]string{"127.0.0.1:1"})
	t.Cleanup(func() { _ = p.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.PublishEvent(ctx, TopicProducts, "k", New(Created, "k", "", nil))
	assert.Error(t, err)
}

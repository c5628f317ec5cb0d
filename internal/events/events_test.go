package events

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel(t *testing.T) {
	assert.Equal(t, "ilewa:user:u1:events", Channel("u1"))
}

func TestBus_PublishSubscribe(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	bus := NewBus(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, stop, err := bus.Subscribe(ctx, "u1")
	require.NoError(t, err)
	defer stop()

	require.NoError(t, bus.Publish(ctx, "u2", TypeMessage, gin.H{"id": "other"}))
	require.NoError(t, bus.Publish(ctx, "u1", TypeNotification, gin.H{"id": "n1"}))

	select {
	case ev := <-ch:
		assert.Equal(t, TypeNotification, ev.Type)
		assert.JSONEq(t, `{"id":"n1"}`, string(ev.Data))
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	select {
	case _, ok := <-ch:
		for ok {
			_, ok = <-ch
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWriteSSE(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSSE(&buf, "unread_count", gin.H{"count": 3}))
	assert.Equal(t, "event: unread_count\ndata: {\"count\":3}\n\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteSSE(&buf, "message", json.RawMessage(`{"a":1}`)))
	assert.Equal(t, "event: message\ndata: {\"a\":1}\n\n", buf.String())
}

func TestStream(t *testing.T) {
	gin.SetMode(gin.TestMode)

	initial, err := NewEvent(TypeUnreadCount, gin.H{"count": 2})
	require.NoError(t, err)
	live, err := NewEvent(TypeNotification, gin.H{"id": "n1"})
	require.NoError(t, err)

	source := make(chan Event, 1)
	source <- live
	close(source)

	r := gin.New()
	r.GET("/stream", func(c *gin.Context) {
		Stream(c, []Event{initial}, source, time.Minute)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "no", w.Header().Get("X-Accel-Buffering"))
	assert.Equal(t,
		"event: unread_count\ndata: {\"count\":2}\n\n"+
			"event: notification\ndata: {\"id\":\"n1\"}\n\n",
		w.Body.String())
}

func TestOnly(t *testing.T) {
	in := make(chan Event, 3)
	in <- Event{Type: TypeMessage}
	in <- Event{Type: TypeNotification}
	in <- Event{Type: TypeMessage}
	close(in)

	var got []string
	for ev := range Only(context.Background(), in, TypeMessage) {
		got = append(got, ev.Type)
	}
	assert.Equal(t, []string{TypeMessage, TypeMessage}, got)
}

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const KeepAliveInterval = 15 * time.Second

// WriteSSE writes one server-sent event frame.
func WriteSSE(w io.Writer, event string, data interface{}) error {
	var payload []byte
	switch v := data.(type) {
	case json.RawMessage:
		payload = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		payload = b
	}
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	return err
}

// Stream serves an SSE response: the initial events first, then every event
// received until the client disconnects or the source closes.
// A comment line is written every keepAlive to hold proxies open.
func Stream(c *gin.Context, initial []Event, source <-chan Event, keepAlive time.Duration) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "streaming unsupported"})
		return
	}
	c.Status(http.StatusOK)

	for _, ev := range initial {
		if err := WriteSSE(c.Writer, ev.Type, ev.Data); err != nil {
			return
		}
	}
	flusher.Flush()

	if keepAlive <= 0 {
		keepAlive = KeepAliveInterval
	}
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(c.Writer, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case ev, ok := <-source:
			if !ok {
				return
			}
			if err := WriteSSE(c.Writer, ev.Type, ev.Data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// NewEvent builds an Event from any JSON-encodable payload.
func NewEvent(eventType string, payload interface{}) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, Data: data}, nil
}

// Only forwards events of the given types. The result closes when in closes or ctx ends.
func Only(ctx context.Context, in <-chan Event, types ...string) <-chan Event {
	keep := make(map[string]bool, len(types))
	for _, t := range types {
		keep[t] = true
	}
	out := make(chan Event, cap(in))
	go func() {
		defer close(out)
		for ev := range in {
			if !keep[ev.Type] {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

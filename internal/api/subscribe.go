package api

import (
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Subscribe opens a server-sent event stream for the user. The client first
// receives the INIT acknowledgment, then one ALERT event per pushed alert,
// until it disconnects, is unsubscribed, or the lifetime ceiling passes.
func (h *Handler) Subscribe(c *gin.Context) {
	userID := c.Param("user_id")

	sub, err := h.registry.Subscribe(userID)
	if err != nil {
		h.logger.Errorf("Subscribe failed for user_id %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}
	defer sub.Close()

	c.Writer.Header().Set("Content-Type", sse.ContentType)
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			return
		case <-sub.Done():
			return
		case ev := <-sub.Events():
			out := sse.Event{Id: ev.ID, Event: ev.Name, Data: ev.Data}
			if err := sse.Encode(c.Writer, out); err != nil {
				h.logger.Warnf("SSE write failed for user_id %s: %v", userID, err)
				return
			}
			c.Writer.Flush()
		}
	}
}

// SubscribeWS is the websocket variant of Subscribe: the same registry
// subscription, with each event sent as one JSON text frame.
func (h *Handler) SubscribeWS(c *gin.Context) {
	userID := c.Param("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed for user_id %s: %v", userID, err)
		return
	}
	defer conn.Close()

	sub, err := h.registry.Subscribe(userID)
	if err != nil {
		h.logger.Errorf("Subscribe failed for user_id %s: %v", userID, err)
		return
	}
	defer sub.Close()

	// Reader loop exists only to notice the peer closing.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				sub.Close()
				return
			}
		}
	}()

	for {
		select {
		case <-sub.Done():
			return
		case ev := <-sub.Events():
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Warnf("WebSocket write failed for user_id %s: %v", userID, err)
				return
			}
		}
	}
}

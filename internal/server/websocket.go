package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // В продакшене нужно ограничить домены
	},
}

// UpdatesWebSocket транслирует события брокера: каждая записанная пачка
// строк уходит подписанным клиентам дашборда
func (h *Handlers) UpdatesWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade to websocket", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse("websocket_failed", "Failed to establish WebSocket connection"))
		return
	}
	defer conn.Close()

	events, cancel := h.container.Broker.Subscribe()
	defer cancel()

	h.logger.Info("websocket connected for updates")

	// Читатель нужен только чтобы заметить закрытие со стороны клиента
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			h.logger.Debug("websocket disconnected")
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Debug("websocket write error", "error", err)
				return
			}
		}
	}
}

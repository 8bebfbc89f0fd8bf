package handler

import (
	"log"
	"net/http"

	"roomchat/backend/internal/chathub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades an authenticated request and registers the
// connection with the hub. The socket only carries outbound message events.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	p := principal(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WARNING: websocket upgrade for user %d: %v", p.UserID, err)
		return
	}

	client := chathub.NewWebSocketClient(h.Hub, p.UserID, conn)
	if !h.Hub.Register(client) {
		conn.Close()
		return
	}
	client.Run()
}

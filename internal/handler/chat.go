package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/chat"
)

// ChatHandler upgrades chat requests to websocket connections and
// hands them to the hub.
type ChatHandler struct {
	Hub      *chat.Hub
	upgrader websocket.Upgrader
}

func NewChatHandler(hub *chat.Hub) *ChatHandler {
	return &ChatHandler{
		Hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Room joins the caller to the chat room under the username given in
// the path. Join blocks until the connection closes.
func (h *ChatHandler) Room(c echo.Context) error {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username required"})
	}
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	h.Hub.Join(conn, username)
	return nil
}

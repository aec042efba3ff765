package controllers

import (
	"staffpoint_go/middleware"
	"staffpoint_go/services/websocket"
	"staffpoint_go/utils"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

// wsHub is the process-wide live attendance feed hub, set from main.
var wsHub *websocket.Hub

// SetWebSocketHub wires the hub into the controllers
func SetWebSocketHub(hub *websocket.Hub) {
	wsHub = hub
}

// BroadcastAttendanceEvent pushes a live event to connected dashboards.
// A nil hub (tests, hub disabled) is a no-op.
func BroadcastAttendanceEvent(eventType string, data interface{}) {
	if wsHub == nil {
		return
	}
	wsHub.BroadcastEvent(eventType, data)
}

type WebSocketController struct{}

// WebSocketUpgrade gates the /ws route to websocket requests
func (wc *WebSocketController) WebSocketUpgrade(c *fiber.Ctx) error {
	if fiberws.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleWebSocket attaches an authenticated connection to the hub
func (wc *WebSocketController) HandleWebSocket() fiber.Handler {
	return fiberws.New(func(conn *fiberws.Conn) {
		userID, _ := conn.Locals("ws_user_id").(uint)
		role, _ := conn.Locals("ws_role").(string)
		if wsHub == nil || userID == 0 {
			conn.Close()
			return
		}
		wsHub.ServeFiberWS(conn, userID, role)
	})
}

// StoreWSIdentity copies the JWT identity into locals the websocket
// handler can read after the upgrade.
func (wc *WebSocketController) StoreWSIdentity(c *fiber.Ctx) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return utils.RespondError(c, utils.UnauthorizedError("Missing user claims"))
	}
	c.Locals("ws_user_id", claims.UserID)
	c.Locals("ws_role", claims.Role)
	return c.Next()
}

// GetStats reports hub connection counts
func (wc *WebSocketController) GetStats(c *fiber.Ctx) error {
	count := 0
	if wsHub != nil {
		count = wsHub.GetClientCount()
	}
	return utils.Success(c, fiber.Map{"connected_clients": count})
}

package handler

import (
	"notefiber-assign-be/internal/pkg/logger"
	"notefiber-assign-be/internal/pkg/serverutils"
	internalWS "notefiber-assign-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// RelationsFeedHandler upgrades authenticated clients to the live relations feed.
type RelationsFeedHandler struct {
	hub       *internalWS.Hub
	jwtSecret []byte
	logger    logger.ILogger
}

func NewRelationsFeedHandler(hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *RelationsFeedHandler {
	return &RelationsFeedHandler{
		hub:       hub,
		jwtSecret: []byte(jwtSecret),
		logger:    log,
	}
}

func (h *RelationsFeedHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/assign/v1/ws", h.ServeWs)
}

// ServeWs handles websocket requests from the peer.
func (h *RelationsFeedHandler) ServeWs(c *fiber.Ctx) error {
	// Browsers cannot set headers on a websocket handshake, so the query wins.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Missing token (Query 'token' or Header 'Authorization')"))
	}

	userIDStr, ok := serverutils.ParseUserID(tokenStr, h.jwtSecret)
	if !ok {
		h.logger.Warn("RelationsFeedHandler", "Invalid Token in WS Handshake", nil)
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid user ID format in token"))
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("RelationsFeedHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, conn, userID)
			h.logger.Info("RelationsFeedHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

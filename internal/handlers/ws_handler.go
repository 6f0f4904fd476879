package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/fieldserve/marketplace-api/internal/httperr"
	"github.com/fieldserve/marketplace-api/internal/middleware"
	"github.com/fieldserve/marketplace-api/internal/models"
	"github.com/fieldserve/marketplace-api/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type WSHandler struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewWSHandler(db *gorm.DB, hub *realtime.Hub) *WSHandler {
	return &WSHandler{db: db, hub: hub}
}

// Join subscribes the caller to its own topic. Providers join
// provider_<providerID>, everyone else customer_<userID>. Events
// published before the join are gone; there is no replay.
func (h *WSHandler) Join(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	roleID := c.MustGet(middleware.ContextRoleID).(uint)

	topic := realtime.CustomerTopic(userID)

	if roleID == models.RoleProvider {
		var provider models.ServiceProvider
		if err := h.db.Where("user_id = ?", userID).First(&provider).Error; err != nil {
			httperr.NotFound(c, "provider_not_found", "No provider profile for this user.")
			return
		}
		topic = realtime.ProviderTopic(provider.ID)

		now := time.Now()
		h.db.Model(&models.ServiceProvider{}).
			Where("id = ?", provider.ID).
			Update("last_active", now)
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	h.hub.Join(topic, conn)

	// Server-push protocol: client frames are discarded, the read loop
	// only notices disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.hub.Leave(topic, conn)
			_ = conn.Close()
			break
		}
	}
}

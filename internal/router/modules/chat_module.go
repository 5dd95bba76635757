package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/institutoavanca/portal-api/internal/container"
	handlers "github.com/institutoavanca/portal-api/internal/interface/http"
	"github.com/institutoavanca/portal-api/internal/interface/middleware"
	"github.com/institutoavanca/portal-api/pkg/helpers"
)

// ChatModule mounts the widget relay (anonymous, rate-limited per IP) and
// the authenticated transcript store.
type ChatModule struct {
	Handler *handlers.ChatHandler
	JWT     *helpers.JWTManager
}

func NewChat(h *handlers.ChatHandler, jwt *helpers.JWTManager) *ChatModule {
	return &ChatModule{Handler: h, JWT: jwt}
}

func (m *ChatModule) Register(rg *gin.RouterGroup) {
	chatLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.POST("/chat", chatLimiter, m.Handler.Relay)
	rg.OPTIONS("/chat", m.Handler.Preflight)

	auth := rg.Group("/chat")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.POST("/conversations", m.Handler.SaveConversation)
		auth.GET("/conversations", m.Handler.ListConversations)
	}
}

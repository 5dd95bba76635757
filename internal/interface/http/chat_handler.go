package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/institutoavanca/portal-api/config"
	"github.com/institutoavanca/portal-api/internal/domain/entity"
	repo "github.com/institutoavanca/portal-api/internal/domain/repository"
	"github.com/institutoavanca/portal-api/internal/interface/middleware"
	"github.com/institutoavanca/portal-api/pkg/response"
)

// systemPrompt frames every upstream request. Visitor messages are always
// preceded by it, regardless of what the client sends.
const systemPrompt = "És o assistente virtual do Instituto Avança, uma escola de formação profissional em Portugal. " +
	"Respondes sempre em português europeu, de forma curta e cordial. " +
	"Ajudas com informação sobre cursos, horários, inscrições e pagamentos. " +
	"Quando não sabes a resposta, indicas o contacto da secretaria em vez de inventar."

// Localized errors the widget shows verbatim.
const (
	chatErrRateLimited = "Muitas mensagens num curto espaço de tempo. Aguarde uns instantes e tente novamente."
	chatErrQuota       = "O serviço de chat atingiu o limite de utilização. Por favor, tente mais tarde."
	chatErrGeneric     = "O assistente está temporariamente indisponível. Tente novamente dentro de momentos."
)

// ChatHandler relays widget conversations to the upstream AI gateway and
// pipes the SSE response back untouched.
type ChatHandler struct {
	Cfg    *config.Config
	Chats  repo.ChatRepository
	Logger *logrus.Logger
	Client *http.Client
}

func NewChatHandler(cfg *config.Config, chats repo.ChatRepository, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		Cfg:    cfg,
		Chats:  chats,
		Logger: logger,
		// No client timeout: streams stay open as long as the upstream keeps
		// sending.
		Client: &http.Client{},
	}
}

type chatRequest struct {
	Messages []entity.ChatMessage `json:"messages" binding:"required,min=1,dive"`
}

type upstreamRequest struct {
	Model    string               `json:"model"`
	Messages []entity.ChatMessage `json:"messages"`
	Stream   bool                 `json:"stream"`
}

// Relay handles POST /api/chat.
func (h *ChatHandler) Relay(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// The widget treats every relay-side failure as a 500 with the
		// generic message, including an unparseable body.
		c.JSON(http.StatusInternalServerError, gin.H{"error": chatErrGeneric})
		return
	}

	// Credentials are checked before any upstream contact.
	if h.Cfg.AIGatewayAPIKey == "" {
		h.Logger.Error("chat relay called without AI gateway credentials")
		c.JSON(http.StatusInternalServerError, gin.H{"error": chatErrGeneric})
		return
	}

	payload := upstreamRequest{
		Model:    h.Cfg.AIModel,
		Messages: append([]entity.ChatMessage{{Role: "system", Content: systemPrompt}}, req.Messages...),
		Stream:   true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": chatErrGeneric})
		return
	}

	upReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, h.Cfg.AIGatewayURL, bytes.NewReader(body))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": chatErrGeneric})
		return
	}
	upReq.Header.Set("Content-Type", "application/json")
	upReq.Header.Set("Authorization", "Bearer "+h.Cfg.AIGatewayAPIKey)

	resp, err := h.Client.Do(upReq)
	if err != nil {
		h.Logger.WithError(err).Error("chat upstream request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": chatErrGeneric})
		return
	}
	defer resp.Body.Close()

	// Upstream failures map to a small set of localized messages; the
	// upstream body is logged but never forwarded.
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		h.logUpstream(resp)
		c.JSON(http.StatusTooManyRequests, gin.H{"error": chatErrRateLimited})
		return
	case resp.StatusCode == http.StatusPaymentRequired:
		h.logUpstream(resp)
		c.JSON(http.StatusPaymentRequired, gin.H{"error": chatErrQuota})
		return
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		h.logUpstream(resp)
		c.JSON(http.StatusInternalServerError, gin.H{"error": chatErrGeneric})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	// Transparent byte pipe: chunks go out exactly as they come in.
	flusher, _ := c.Writer.(http.Flusher)
	buf := make([]byte, 4*1024)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := c.Writer.Write(buf[:n]); werr != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err != nil {
			if err != io.EOF {
				h.Logger.WithError(err).Warn("chat upstream stream interrupted")
			}
			return
		}
	}
}

func (h *ChatHandler) logUpstream(resp *http.Response) {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	h.Logger.WithFields(logrus.Fields{
		"status": resp.StatusCode,
		"body":   string(detail),
	}).Error("chat upstream returned error")
}

// Preflight answers OPTIONS /api/chat permissively so the widget works
// from any page embedding it.
func (h *ChatHandler) Preflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Status(http.StatusOK)
}

type saveConversationRequest struct {
	Messages []entity.ChatMessage `json:"messages" binding:"required,min=1,dive"`
}

// SaveConversation stores a finished widget transcript for the signed-in
// student. The relay itself never persists anything.
func (h *ChatHandler) SaveConversation(c *gin.Context) {
	var req saveConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "dados inválidos", err.Error())
		return
	}
	conv := &entity.ChatConversation{
		ProfileID: c.GetString(middleware.CtxProfileIDKey),
		Messages:  req.Messages,
		CreatedAt: time.Now(),
	}
	if err := h.Chats.Save(conv); err != nil {
		h.Logger.WithError(err).Error("failed to save chat conversation")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível guardar a conversa", nil)
		return
	}
	response.Success(c, http.StatusCreated, conv.ID, "conversa guardada", nil)
}

// ListConversations returns the student's saved transcripts.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	items, err := h.Chats.ListByProfile(c.GetString(middleware.CtxProfileIDKey), 20)
	if err != nil {
		h.Logger.WithError(err).Error("failed to list chat conversations")
		response.Error[any](c, http.StatusInternalServerError, "não foi possível carregar as conversas", nil)
		return
	}
	response.Success(c, http.StatusOK, items, "", nil)
}

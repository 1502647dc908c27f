package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type assistantChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type assistantChatResponse struct {
	Reply string `json:"reply"`
}

func (h *HTTPHandler) AssistantChat(c *gin.Context) {
	if h.responder == nil {
		ServiceUnavailable(c, "assistant not available")
		return
	}

	var req assistantChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		MissingField(c, "message")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	reply, err := h.responder.Respond(ctx, req.Message)
	if err != nil {
		logrus.WithError(err).Error("assistant failed to respond")
		InternalError(c, "failed to generate reply")
		return
	}

	c.JSON(http.StatusOK, assistantChatResponse{Reply: reply})
}

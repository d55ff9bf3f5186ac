package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/StudyHub/internal/services"
)

type MessageHandler struct {
	MessageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{
		MessageService: messageService,
	}
}

// SendMessage 发送小组消息
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	var req services.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "消息不能为空"})
		return
	}

	resp, err := h.MessageService.SendMessage(userID, groupID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotMember):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "发送消息失败"})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetMessages 获取小组消息列表
func (h *MessageHandler) GetMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	resp, err := h.MessageService.GetMessages(userID, groupID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotMember):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "获取消息失败"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

package services

import (
	"errors"
	"strings"
	"time"

	"github.com/Gopher0727/StudyHub/internal/models"
	"github.com/Gopher0727/StudyHub/internal/repositories"
	"github.com/Gopher0727/StudyHub/utils/snowflake"
)

var ErrEmptyMessage = errors.New("消息不能为空")

type MessageService struct {
	MessageRepo *repositories.MessageRepository
	GroupRepo   *repositories.GroupRepository
	UserRepo    *repositories.UserRepository
	IDGen       *snowflake.Generator
}

func NewMessageService(messageRepo *repositories.MessageRepository, groupRepo *repositories.GroupRepository, userRepo *repositories.UserRepository, idGen *snowflake.Generator) *MessageService {
	return &MessageService{
		MessageRepo: messageRepo,
		GroupRepo:   groupRepo,
		UserRepo:    userRepo,
		IDGen:       idGen,
	}
}

type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

type MessageResponse struct {
	ID        int64     `json:"id"`
	GroupID   uint      `json:"group_id"`
	UserID    uint      `json:"user_id"`
	UserName  string    `json:"user_name"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// SendMessage 发送消息，仅小组成员可发，消息体去掉首尾空白后入库
func (s *MessageService) SendMessage(userID, groupID uint, req *SendMessageRequest) (*MessageResponse, error) {
	body := strings.TrimSpace(req.Message)
	if body == "" {
		return nil, ErrEmptyMessage
	}

	isMember, err := s.GroupRepo.IsMember(groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	id, err := s.IDGen.NextID()
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:      id,
		GroupID: groupID,
		UserID:  userID,
		Body:    body,
	}

	if err := s.MessageRepo.Create(msg); err != nil {
		return nil, err
	}

	author, err := s.UserRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	return &MessageResponse{
		ID:        msg.ID,
		GroupID:   msg.GroupID,
		UserID:    msg.UserID,
		UserName:  author.Name,
		Message:   msg.Body,
		CreatedAt: msg.CreatedAt,
	}, nil
}

// GetMessages 获取小组消息，按时间升序（聊天记录从上往下读）
func (s *MessageService) GetMessages(userID, groupID uint) ([]MessageResponse, error) {
	isMember, err := s.GroupRepo.IsMember(groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	rows, err := s.MessageRepo.GetGroupMessages(groupID)
	if err != nil {
		return nil, err
	}

	resp := make([]MessageResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, MessageResponse{
			ID:        row.ID,
			GroupID:   row.GroupID,
			UserID:    row.UserID,
			UserName:  row.UserName,
			Message:   row.Body,
			CreatedAt: row.CreatedAt,
		})
	}
	return resp, nil
}

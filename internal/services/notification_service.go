package services

import (
	"errors"
	"time"

	"github.com/Gopher0727/StudyHub/internal/repositories"
)

var ErrNotificationNotFound = errors.New("通知不存在")

const defaultNotificationLimit = 20

type NotificationService struct {
	NotifRepo *repositories.NotificationRepository
}

func NewNotificationService(notifRepo *repositories.NotificationRepository) *NotificationService {
	return &NotificationService{NotifRepo: notifRepo}
}

type NotificationResponse struct {
	ID        uint      `json:"id"`
	GroupID   uint      `json:"group_id"`
	GroupName string    `json:"group_name"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// List 获取用户通知，最新的排在前面
func (s *NotificationService) List(userID uint, page, limit int) ([]NotificationResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	rows, err := s.NotifRepo.ListByUser(userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, NotificationResponse{
			ID:        row.ID,
			GroupID:   row.GroupID,
			GroupName: row.GroupName,
			Type:      row.Type,
			Message:   row.Message,
			IsRead:    row.IsRead,
			CreatedAt: row.CreatedAt,
		})
	}
	return resp, nil
}

// MarkRead 标记已读，幂等；id 不属于该用户时视为不存在
func (s *NotificationService) MarkRead(id, userID uint) error {
	ok, err := s.NotifRepo.MarkRead(id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

// Delete 删除通知，只能删自己的
func (s *NotificationService) Delete(id, userID uint) error {
	ok, err := s.NotifRepo.Delete(id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

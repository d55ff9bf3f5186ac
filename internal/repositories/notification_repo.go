package repositories

import (
	"gorm.io/gorm"

	"github.com/Gopher0727/StudyHub/internal/models"
)

// NotificationRepository 通知仓储，所有变更都按 (id, user_id) 过滤，
// 归属校验和写操作在同一条语句里完成
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// NotificationRow 通知行 + 关联小组名字
type NotificationRow struct {
	models.Notification
	GroupName string `json:"group_name"`
}

// Create 写入一条通知
func (r *NotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// ListByUser 获取用户的通知，最新的排在前面
func (r *NotificationRepository) ListByUser(userID uint, limit, offset int) ([]NotificationRow, error) {
	var rows []NotificationRow
	err := r.db.Model(&models.Notification{}).
		Select("notifications.*, groups.name AS group_name").
		Joins("LEFT JOIN groups ON groups.id = notifications.group_id").
		Where("notifications.user_id = ?", userID).
		Order("notifications.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

// MarkRead 标记已读，幂等：已读的通知再标记一次仍然成功
func (r *NotificationRepository) MarkRead(id, userID uint) (bool, error) {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete 删除通知，只允许删除自己的
func (r *NotificationRepository) Delete(id, userID uint) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

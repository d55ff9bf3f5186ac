package repositories

import (
	"gorm.io/gorm"

	"github.com/Gopher0727/StudyHub/internal/models"
)

// MessageRepository 消息仓储
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// MessageRow 消息行 + 发送者名字
type MessageRow struct {
	models.Message
	UserName string `json:"user_name"`
}

// Create 追加一条消息
func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

// GetByID 根据 ID 获取消息（带发送者名字）
func (r *MessageRepository) GetByID(id int64) (*MessageRow, error) {
	var row MessageRow
	err := r.db.Model(&models.Message{}).
		Select("group_messages.*, users.name AS user_name").
		Joins("JOIN users ON users.id = group_messages.user_id").
		Where("group_messages.id = ?", id).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

// GetGroupMessages 获取小组全部消息
// 按 (created_at, id) 升序，时间戳相同时 snowflake ID 保证顺序确定
func (r *MessageRepository) GetGroupMessages(groupID uint) ([]MessageRow, error) {
	var rows []MessageRow
	err := r.db.Model(&models.Message{}).
		Select("group_messages.*, users.name AS user_name").
		Joins("JOIN users ON users.id = group_messages.user_id").
		Where("group_messages.group_id = ?", groupID).
		Order("group_messages.created_at ASC, group_messages.id ASC").
		Scan(&rows).Error
	return rows, err
}

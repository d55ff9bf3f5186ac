package models

import "time"

// 通知类型
const (
	NotificationTypeNewMember = "new_member"
)

// Notification 用户通知模型，is_read 只会从 false 变为 true
type Notification struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	GroupID uint   `gorm:"not null" json:"group_id"`
	Type    string `gorm:"not null" json:"type"`
	Message string `gorm:"not null" json:"message"`
	IsRead  bool   `gorm:"not null;default:false" json:"is_read"`

	CreatedAt time.Time `json:"created_at"`

	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Group *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}

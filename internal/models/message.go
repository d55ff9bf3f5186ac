package models

import "time"

// Message 小组消息模型
// ID 使用 snowflake 生成，时间有序，created_at 相同时按 ID 升序即为发送顺序
type Message struct {
	ID      int64  `gorm:"primaryKey" json:"id"`
	GroupID uint   `gorm:"not null;index" json:"group_id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Body    string `gorm:"type:text;not null" json:"message"`

	CreatedAt time.Time `json:"created_at"`

	Group  *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	Author *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Message) TableName() string {
	return "group_messages"
}

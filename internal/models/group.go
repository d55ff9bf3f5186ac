package models

import "time"

// Group 学习小组模型
// 注意：成员数不落库，读路径一律用 group_members 的实时 COUNT
type Group struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name            string `gorm:"not null" json:"name"`
	Description     string `json:"description"`
	Subject         string `gorm:"not null;index" json:"subject"`
	MaxParticipants int    `gorm:"not null;default:10" json:"max_participants"`
	CreatedBy       uint   `gorm:"not null" json:"created_by"`

	Creator *User `gorm:"foreignKey:CreatedBy" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Group) TableName() string {
	return "groups"
}

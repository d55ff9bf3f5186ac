package models

import "time"

// GroupMember 小组成员中间表，联合主键保证 (group_id, user_id) 唯一
type GroupMember struct {
	GroupID uint `gorm:"primaryKey" json:"group_id"`
	UserID  uint `gorm:"primaryKey" json:"user_id"`

	JoinedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"joined_at"`

	Group *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (GroupMember) TableName() string {
	return "group_members"
}

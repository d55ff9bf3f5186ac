package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Gopher0727/StudyHub/internal/models"
)

// ErrGroupFull 小组人数已达上限
var ErrGroupFull = errors.New("group is full")

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// GroupSummary 搜索结果行：组信息 + 创建者名字 + 实时成员数
type GroupSummary struct {
	models.Group
	CreatorName         string `json:"creator_name"`
	CurrentParticipants int    `json:"current_participants"`
}

// SearchFilter 搜索条件，Subject 精确匹配，Search 对名称/描述做大小写不敏感的子串匹配
type SearchFilter struct {
	Subject string
	Search  string
	Limit   int
	Offset  int
}

// memberCountExpr 实时成员数子查询，唯一可信的 current_participants 来源
const memberCountExpr = "(SELECT COUNT(*) FROM group_members gm WHERE gm.group_id = groups.id)"

// CreateGroup 创建小组并把创建者写入成员表
// 实现逻辑：开启事务，先建组，再插入创建者的成员记录，两者要么都成功要么都回滚
func (r *GroupRepository) CreateGroup(group *models.Group) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		member := models.GroupMember{
			GroupID: group.ID,
			UserID:  group.CreatedBy,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return nil
	})
}

// GetByID 根据 ID 获取小组
func (r *GroupRepository) GetByID(id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// Search 按条件分页搜索小组，最新创建的排在前面
func (r *GroupRepository) Search(filter SearchFilter) ([]GroupSummary, int64, error) {
	query := r.db.Model(&models.Group{})
	if filter.Subject != "" {
		query = query.Where("groups.subject = ?", filter.Subject)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("groups.name ILIKE ? OR groups.description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []GroupSummary
	err := query.
		Select("groups.*, users.name AS creator_name, "+memberCountExpr+" AS current_participants").
		Joins("LEFT JOIN users ON users.id = groups.created_by").
		Order("groups.created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Scan(&rows).Error
	return rows, total, err
}

// AddMember 入组核心路径，容量检查和插入必须是同一个原子单元
// 实现逻辑：事务内先 FOR UPDATE 锁住组行，串行化同组的并发入组；
// 然后用成员表实时 COUNT 做容量判断，最后插入成员记录。
// (group_id, user_id) 联合主键兜底去重，冲突被翻译为 gorm.ErrDuplicatedKey
func (r *GroupRepository) AddMember(groupID, userID uint) (*models.Group, error) {
	var group models.Group
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&group, groupID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.GroupMember{}).
			Where("group_id = ?", groupID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(group.MaxParticipants) {
			return ErrGroupFull
		}

		member := models.GroupMember{
			GroupID: groupID,
			UserID:  userID,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// IsMember 检查用户是否是小组成员
func (r *GroupRepository) IsMember(groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

// MemberInfo 成员列表行
type MemberInfo struct {
	UserID   uint      `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

// GetMembers 获取小组成员列表，按加入时间升序
func (r *GroupRepository) GetMembers(groupID uint) ([]MemberInfo, error) {
	var members []MemberInfo
	err := r.db.Model(&models.GroupMember{}).
		Select("users.id AS user_id, users.name, users.email, group_members.joined_at").
		Joins("JOIN users ON users.id = group_members.user_id").
		Where("group_members.group_id = ?", groupID).
		Order("group_members.joined_at ASC").
		Scan(&members).Error
	return members, err
}

// CountMembers 小组实时成员数
func (r *GroupRepository) CountMembers(groupID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count, err
}

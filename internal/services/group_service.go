package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Gopher0727/StudyHub/internal/models"
	"github.com/Gopher0727/StudyHub/internal/repositories"
	"github.com/Gopher0727/StudyHub/pkg/mq"
)

var (
	ErrGroupNotFound     = errors.New("小组不存在")
	ErrGroupFull         = errors.New("小组人数已满")
	ErrAlreadyMember     = errors.New("已经是该小组成员")
	ErrNotMember         = errors.New("不是该小组成员")
	ErrInvalidGroupInput = errors.New("名称和科目不能为空")
)

const (
	defaultMaxParticipants = 10
	defaultPageLimit       = 10
	maxPageLimit           = 100
)

type GroupService struct {
	GroupRepo *repositories.GroupRepository
	NotifRepo *repositories.NotificationRepository
	Producer  *mq.KafkaProducer // 为 nil 时降级为直接写库
	Logger    *zap.Logger
}

func NewGroupService(groupRepo *repositories.GroupRepository, notifRepo *repositories.NotificationRepository, producer *mq.KafkaProducer, logger *zap.Logger) *GroupService {
	return &GroupService{
		GroupRepo: groupRepo,
		NotifRepo: notifRepo,
		Producer:  producer,
		Logger:    logger,
	}
}

type CreateGroupRequest struct {
	Name            string `json:"name"`
	Subject         string `json:"subject"`
	Description     string `json:"description"`
	MaxParticipants int    `json:"max_participants"`
}

type GroupResponse struct {
	ID                  uint      `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	Subject             string    `json:"subject"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	CreatedBy           uint      `json:"created_by"`
	CreatorName         string    `json:"creator_name,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// CreateGroup 创建学习小组，创建者自动入组并计入容量
func (s *GroupService) CreateGroup(creatorID uint, req *CreateGroupRequest) (*GroupResponse, error) {
	if req.Name == "" || req.Subject == "" {
		return nil, ErrInvalidGroupInput
	}

	maxParticipants := req.MaxParticipants
	if maxParticipants <= 0 {
		maxParticipants = defaultMaxParticipants
	}

	group := &models.Group{
		Name:            req.Name,
		Description:     req.Description,
		Subject:         req.Subject,
		MaxParticipants: maxParticipants,
		CreatedBy:       creatorID,
	}

	if err := s.GroupRepo.CreateGroup(group); err != nil {
		return nil, err
	}

	return &GroupResponse{
		ID:                  group.ID,
		Name:                group.Name,
		Description:         group.Description,
		Subject:             group.Subject,
		MaxParticipants:     group.MaxParticipants,
		CurrentParticipants: 1,
		CreatedBy:           group.CreatedBy,
		CreatedAt:           group.CreatedAt,
	}, nil
}

type SearchGroupsRequest struct {
	Subject string
	Search  string
	Page    int
	Limit   int
}

// Pagination 1 开始计页
type Pagination struct {
	Current    int   `json:"current"`
	Total      int   `json:"total"`
	TotalItems int64 `json:"total_items"`
}

type SearchGroupsResponse struct {
	Groups     []GroupResponse `json:"groups"`
	Pagination Pagination      `json:"pagination"`
}

// TotalPages 总页数 = ceil(totalItems / limit)
func TotalPages(totalItems int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((totalItems + int64(limit) - 1) / int64(limit))
}

// SearchGroups 按科目/关键字搜索小组，结果带创建者名字和实时成员数
func (s *GroupService) SearchGroups(req *SearchGroupsRequest) (*SearchGroupsResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	rows, total, err := s.GroupRepo.Search(repositories.SearchFilter{
		Subject: req.Subject,
		Search:  req.Search,
		Limit:   limit,
		Offset:  (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}

	groups := make([]GroupResponse, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, GroupResponse{
			ID:                  row.ID,
			Name:                row.Name,
			Description:         row.Description,
			Subject:             row.Subject,
			MaxParticipants:     row.MaxParticipants,
			CurrentParticipants: row.CurrentParticipants,
			CreatedBy:           row.CreatedBy,
			CreatorName:         row.CreatorName,
			CreatedAt:           row.CreatedAt,
		})
	}

	return &SearchGroupsResponse{
		Groups: groups,
		Pagination: Pagination{
			Current:    page,
			Total:      TotalPages(total, limit),
			TotalItems: total,
		},
	}, nil
}

// JoinGroup 入组工作流
// 容量检查、去重和插入由仓储层在一个事务里完成；
// 通知是 best-effort 副作用，失败只记日志，绝不回滚已成功的入组
func (s *GroupService) JoinGroup(groupID, userID uint) error {
	group, err := s.GroupRepo.AddMember(groupID, userID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrGroupNotFound
		case errors.Is(err, repositories.ErrGroupFull):
			return ErrGroupFull
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return ErrAlreadyMember
		default:
			return err
		}
	}

	s.notifyNewMember(group, userID)
	return nil
}

// notifyNewMember 给小组创建者发 new_member 通知
// 优先走 Kafka，生产者不可用或发送失败时降级为直接写库
func (s *GroupService) notifyNewMember(group *models.Group, memberID uint) {
	event := mq.NewMemberEvent{
		GroupID:   group.ID,
		GroupName: group.Name,
		CreatorID: group.CreatedBy,
		MemberID:  memberID,
	}

	if s.Producer != nil {
		if err := s.Producer.SendMessage(fmt.Sprintf("%d", group.ID), event); err == nil {
			return
		} else {
			s.Logger.Warn("入组事件发送失败，降级为直接写库",
				zap.Uint("group_id", group.ID),
				zap.Error(err),
			)
		}
	}

	if err := s.CreateNewMemberNotification(&event); err != nil {
		s.Logger.Error("写入通知失败",
			zap.Uint("group_id", group.ID),
			zap.Uint("creator_id", group.CreatedBy),
			zap.Error(err),
		)
	}
}

// CreateNewMemberNotification 落一条 new_member 通知，消费端和降级路径共用
func (s *GroupService) CreateNewMemberNotification(event *mq.NewMemberEvent) error {
	notification := &models.Notification{
		UserID:  event.CreatorID,
		GroupID: event.GroupID,
		Type:    models.NotificationTypeNewMember,
		Message: fmt.Sprintf("新成员加入了小组 %s", event.GroupName),
	}
	return s.NotifRepo.Create(notification)
}

// GetMembers 获取成员列表，仅小组成员可见
func (s *GroupService) GetMembers(groupID, userID uint) ([]repositories.MemberInfo, error) {
	if _, err := s.GroupRepo.GetByID(groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	isMember, err := s.GroupRepo.IsMember(groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	return s.GroupRepo.GetMembers(groupID)
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/StudyHub/internal/services"
)

type GroupHandler struct {
	GroupService *services.GroupService
}

func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{
		GroupService: groupService,
	}
}

// currentUserID 从 context 取认证中间件写入的用户 ID
func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未授权访问"})
		return 0, false
	}
	return userID.(uint), true
}

// parseGroupID 解析路径中的 :groupId
func parseGroupID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("groupId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "小组不存在"})
		return 0, false
	}
	return uint(id), true
}

// CreateGroup 创建小组，创建者自动成为第一个成员
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数格式错误"})
		return
	}

	resp, err := h.GroupService.CreateGroup(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidGroupInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "创建小组失败"})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// SearchGroups 公开搜索接口，不需要登录
func (h *GroupHandler) SearchGroups(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	resp, err := h.GroupService.SearchGroups(&services.SearchGroupsRequest{
		Subject: c.Query("subject"),
		Search:  c.Query("search"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "搜索小组失败"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// JoinGroup 入组
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	if err := h.GroupService.JoinGroup(groupID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrGroupFull), errors.Is(err, services.ErrAlreadyMember):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "加入小组失败"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "成功加入小组"})
}

// GetMembers 获取成员列表
func (h *GroupHandler) GetMembers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	members, err := h.GroupService.GetMembers(groupID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNotMember):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "获取成员失败"})
		}
		return
	}

	c.JSON(http.StatusOK, members)
}

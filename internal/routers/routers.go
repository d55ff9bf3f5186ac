package routers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/StudyHub/internal/handlers"
	"github.com/Gopher0727/StudyHub/pkg/middlewares"
)

// SetupRoutes 设置所有路由
func SetupRoutes(r *gin.Engine,
	userHandler *handlers.UserHandler,
	groupHandler *handlers.GroupHandler,
	messageHandler *handlers.MessageHandler,
	notificationHandler *handlers.NotificationHandler,
) {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	// 全局限流中间件 (防止 QPS 过高)
	r.Use(middlewares.RateLimitMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "StudyHub API 运行中",
		})
	})

	// 异步处理中间件
	// 将请求放入 Worker Pool 中排队执行
	r.Use(middlewares.AsyncMiddleware())

	RegisterAuthRoutes(r, userHandler)
	RegisterGroupRoutes(r, groupHandler, messageHandler)
	RegisterNotificationRoutes(r, notificationHandler)
}

func RegisterAuthRoutes(r *gin.Engine, userHandler *handlers.UserHandler) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", userHandler.Register) // 注册
		authGroup.POST("/login", userHandler.Login)       // 登录
	}
}

func RegisterGroupRoutes(r *gin.Engine, groupHandler *handlers.GroupHandler, messageHandler *handlers.MessageHandler) {
	groupGroup := r.Group("/groups")

	// 搜索是公开接口，未登录也可浏览小组
	groupGroup.GET("/search", groupHandler.SearchGroups)

	groupGroup.Use(middlewares.AuthMiddleware())
	{
		groupGroup.POST("", groupHandler.CreateGroup)            // 创建小组
		groupGroup.POST("/:groupId/join", groupHandler.JoinGroup) // 加入小组
		groupGroup.GET("/:groupId/members", groupHandler.GetMembers)

		// 小组内聊天
		groupGroup.POST("/:groupId/messages", messageHandler.SendMessage)
		groupGroup.GET("/:groupId/messages", messageHandler.GetMessages)
	}
}

func RegisterNotificationRoutes(r *gin.Engine, notificationHandler *handlers.NotificationHandler) {
	notifGroup := r.Group("/notifications")
	notifGroup.Use(middlewares.AuthMiddleware())
	{
		notifGroup.GET("", notificationHandler.List)
		notifGroup.PUT("/:id/read", notificationHandler.MarkRead)
		notifGroup.DELETE("/:id", notificationHandler.Delete)
	}
}

package main

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Gopher0727/StudyHub/config"
	"github.com/Gopher0727/StudyHub/internal/consumer"
	"github.com/Gopher0727/StudyHub/internal/handlers"
	"github.com/Gopher0727/StudyHub/internal/repositories"
	"github.com/Gopher0727/StudyHub/internal/routers"
	"github.com/Gopher0727/StudyHub/internal/services"
	"github.com/Gopher0727/StudyHub/internal/storage"
	"github.com/Gopher0727/StudyHub/internal/utils"
	jwtmw "github.com/Gopher0727/StudyHub/middleware/jwt"
	logmw "github.com/Gopher0727/StudyHub/middleware/log"
	"github.com/Gopher0727/StudyHub/pkg/middlewares"
	"github.com/Gopher0727/StudyHub/pkg/mq"
	"github.com/Gopher0727/StudyHub/utils/ratelimit"
	"github.com/Gopher0727/StudyHub/utils/snowflake"
)

func main() {
	cfg, err := config.LoadConfig("./config.toml")
	if err != nil {
		log.Fatalf("配置初始化失败: %v", err)
	}

	appLogger, err := logmw.NewLogger(&cfg.Logging)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	defer appLogger.Close()

	// 初始化全局 Worker Pool (协程池)
	// 用于异步处理请求，防止高并发下 Goroutine 暴涨
	utils.InitGlobalWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize)

	// 初始化 PostgreSQL
	dsn := storage.BuildDSN(cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.DBName)
	postgres, err := storage.InitPostgres(dsn, cfg.Postgres.MaxIdleConns, cfg.Postgres.MaxOpenConns)
	if err != nil {
		log.Fatalf("postgres 初始化失败: %v", err)
	}

	// 初始化 Redis，失败时降级运行（缓存和限流不可用）
	redisClient, err := storage.InitRedis(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize, cfg.Redis.MinIdleConns)
	if err != nil {
		appLogger.Warn("redis 初始化失败，缓存与限流降级", zap.Error(err))
		redisClient = nil
	}

	// 初始化全局限流器
	if redisClient != nil {
		limiter := ratelimit.NewTokenBucketLimiter(redisClient, appLogger.Logger, true)
		middlewares.InitGlobalLimiter(limiter, cfg.RateLimit.QPS)
	}

	// JWT 签发与认证
	tokenManager := jwtmw.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	middlewares.InitAuth(tokenManager)

	// 消息 ID 生成器
	idGen, err := snowflake.NewGenerator(1)
	if err != nil {
		log.Fatalf("ID 生成器初始化失败: %v", err)
	}

	// 初始化仓储层
	userRepo := repositories.NewUserRepository(postgres, redisClient)
	groupRepo := repositories.NewGroupRepository(postgres)
	messageRepo := repositories.NewMessageRepository(postgres)
	notifRepo := repositories.NewNotificationRepository(postgres)

	// 初始化 Kafka Producer
	kafkaProducer, err := mq.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		appLogger.Warn("Kafka 生产者初始化失败，系统将以降级模式运行（通知直接写入数据库）", zap.Error(err))
		kafkaProducer = nil
	} else {
		defer kafkaProducer.Close()
	}

	// 初始化服务层
	userService := services.NewUserService(userRepo, tokenManager)
	groupService := services.NewGroupService(groupRepo, notifRepo, kafkaProducer, appLogger.Logger)
	messageService := services.NewMessageService(messageRepo, groupRepo, userRepo, idGen)
	notificationService := services.NewNotificationService(notifRepo)

	// 初始化 Kafka Consumer (如果 Kafka 可用)
	if kafkaProducer != nil {
		notifConsumer := consumer.NewNotificationConsumer(groupService)
		consumer.StartConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, notifConsumer)
	}

	// 初始化处理器
	userHandler := handlers.NewUserHandler(userService)
	groupHandler := handlers.NewGroupHandler(groupService)
	messageHandler := handlers.NewMessageHandler(messageService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// 配置并创建 Gin 引擎
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// 设置路由
	routers.SetupRoutes(r,
		userHandler,
		groupHandler,
		messageHandler,
		notificationHandler,
	)

	// 启动服务器
	appLogger.Info("正在启动服务器", zap.Int("port", cfg.Server.Port))
	if err := r.Run(":" + strconv.FormatInt(int64(cfg.Server.Port), 10)); err != nil {
		log.Fatalf("启动服务器失败: %v", err)
	}
}

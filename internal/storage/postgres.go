package storage

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Gopher0727/StudyHub/internal/models"
)

// InitPostgres 初始化 PostgreSQL 连接
// TranslateError 开启后，唯一键冲突会被翻译成 gorm.ErrDuplicatedKey，
// 入组去重依赖这个翻译（见 GroupRepository.AddMember）
func InitPostgres(dsn string, maxIdleConns, maxOpenConns int) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Printf("连接数据库失败: %v", err)
		return nil, err
	}

	// 获取底层 sql.DB 对象以设置连接池
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("获取 sql.DB 失败: %v", err)
		return nil, err
	}
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)

	// 自动迁移
	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{}, // 中间表模型，确保联合主键被创建
		&models.Message{},
		&models.Notification{},
	)
	if err != nil {
		log.Printf("模型迁移失败: %v", err)
		return nil, err
	}
	return db, nil
}

// BuildDSN 构建 PostgreSQL DSN
func BuildDSN(host, port, user, password, dbname string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", host, port, user, password, dbname)
}

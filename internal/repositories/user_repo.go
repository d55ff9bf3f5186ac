package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Gopher0727/StudyHub/internal/models"
)

const (
	userCacheKeyPrefix = "user:info:" // Redis String, 值是 user JSON
	userCacheTTL       = 1 * time.Hour
)

// UserRepository 用户仓储，redis 为空时退化为纯数据库访问
type UserRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewUserRepository(db *gorm.DB, redis *redis.Client) *UserRepository {
	return &UserRepository{db: db, redis: redis}
}

// Create 创建用户
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID 根据 ID 获取用户 (带缓存)
func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	// 尝试从 Redis 获取
	if r.redis != nil {
		key := fmt.Sprintf("%s%d", userCacheKeyPrefix, id)
		val, err := r.redis.Get(context.Background(), key).Result()
		if err == nil {
			var user models.User
			if json.Unmarshal([]byte(val), &user) == nil {
				return &user, nil
			}
		}
	}

	// 从数据库获取
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}

	// 回填 Redis
	if r.redis != nil {
		key := fmt.Sprintf("%s%d", userCacheKeyPrefix, id)
		if data, err := json.Marshal(&user); err == nil {
			r.redis.Set(context.Background(), key, data, userCacheTTL)
		}
	}

	return &user, nil
}

// GetByEmail 根据邮箱获取用户（大小写敏感的精确匹配）
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail 检查邮箱是否已注册
func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Package database 负责初始化 MySQL、MongoDB 与 Redis 连接。
package database

import (
	"fmt"
	"time"

	"brainbytes-go/internal/model"
	"brainbytes-go/pkg/log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitMySQL 初始化 MySQL 数据库连接
func InitMySQL(dsn string) {
	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database", err)
	}

	// 配置连接池
	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("MySQL database connected successfully")
}

// AutoMigrate 创建或更新业务表结构。消息表仅在消息存储使用 MySQL 时创建。
func AutoMigrate(db *gorm.DB, withMessages bool) error {
	models := []interface{}{&model.UserProfile{}, &model.LearningMaterial{}}
	if withMessages {
		models = append(models, &model.Message{})
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

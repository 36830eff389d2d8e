package database

import (
	"time"

	"tube-chat-go/internal/model"
	"tube-chat-go/pkg/log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitMySQL 初始化 MySQL 数据库连接，并迁移频道/视频镜像表。
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

	sqlDB.SetMaxIdleConns(10)           // 设置空闲连接池中连接的最大数量
	sqlDB.SetMaxOpenConns(100)          // 设置打开数据库连接的最大数量
	sqlDB.SetConnMaxLifetime(time.Hour) // 设置了连接可复用的最大时间

	// 频道注册表与视频目录的本地镜像表由同步链路写入，这里保证表结构存在
	if err := DB.AutoMigrate(&model.Channel{}, &model.Video{}); err != nil {
		log.Fatal("failed to migrate channel/video tables", err)
	}

	log.Info("MySQL database connected successfully")
}

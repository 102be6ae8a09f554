package repository

import (
	"testing"

	"github.com/wfunc/elf-game/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB 为测试设置内存数据库
func SetupTestDB() *gorm.DB {
	// 使用内存数据库进行测试（更快，不需要文件系统，在所有环境中都能工作）
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.Session{},
		&models.Day{},
	)
	if err != nil {
		panic(err)
	}

	return db
}

// TestDB 创建测试数据库并注册清理
func TestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := SetupTestDB()
	t.Cleanup(func() {
		CleanupTestDB(db)
	})
	return db
}

// CleanupTestDB 清理测试数据库
func CleanupTestDB(db *gorm.DB) {
	sqlDB, _ := db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// CreateTestSession 创建测试会话
func CreateTestSession(uuid, playerName string, elvesStart int) *models.Session {
	return &models.Session{
		UUID:       uuid,
		PlayerName: playerName,
		ElvesStart: elvesStart,
	}
}

package database

import (
	"encoding/json"
	"examdesk_backend/internal/config"
	"examdesk_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.Exam{},
		&model.QuizResult{},
		&model.Metadata{},
	)
	if err != nil {
		return err
	}

	return seedMetadata(db)
}

// seedMetadata 元数据表为空时写入默认分类字典。
func seedMetadata(db *gorm.DB) error {
	var count int64
	db.Model(&model.Metadata{}).Count(&count)
	if count > 0 {
		return nil
	}

	defaults := map[string][]model.MetadataItem{
		"grades": {
			{ID: 1, Name: "Grade 9", IsActive: true},
			{ID: 2, Name: "Grade 10", IsActive: true},
			{ID: 3, Name: "Grade 11", IsActive: true},
			{ID: 4, Name: "Grade 12", IsActive: true},
		},
		"subjects": {
			{ID: 1, Name: "Mathematics", IsActive: true},
			{ID: 2, Name: "Physics", IsActive: true},
			{ID: 3, Name: "Chemistry", IsActive: true},
			{ID: 4, Name: "English", IsActive: true},
		},
		"sections": {
			{ID: 1, Name: "Section A", IsActive: true},
			{ID: 2, Name: "Section B", IsActive: true},
		},
		"questionTypes": {
			{ID: 1, Name: "mcq", IsActive: true},
			{ID: 2, Name: "true_false", IsActive: true},
			{ID: 3, Name: "fill_blank", IsActive: true},
		},
		"difficulties": {
			{ID: 1, Name: "easy", IsActive: true},
			{ID: 2, Name: "medium", IsActive: true},
			{ID: 3, Name: "hard", IsActive: true},
		},
		"roles": {
			{ID: 1, Name: "student", IsActive: true},
			{ID: 2, Name: "teacher", IsActive: true},
			{ID: 3, Name: "admin", IsActive: true},
			{ID: 4, Name: "owner", IsActive: true},
		},
	}

	for key, items := range defaults {
		value, err := json.Marshal(items)
		if err != nil {
			return err
		}
		if err := db.Create(&model.Metadata{Key: key, Value: value}).Error; err != nil {
			return err
		}
	}
	return nil
}

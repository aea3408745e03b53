package repository

import (
	"examdesk_backend/internal/model"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) Create(result *model.QuizResult) error {
	return r.DB.Create(result).Error
}

// FindByExam 某场考试的全部成绩，按分数降序。
func (r *ResultRepository) FindByExam(examID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("exam_id = ?", examID).Order("score DESC").Find(&results).Error
	return results, err
}

func (r *ResultRepository) FindAll() ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Order("created_at DESC").Find(&results).Error
	return results, err
}

func (r *ResultRepository) FindByUsername(username string) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("student_username = ?", username).Order("created_at DESC").Find(&results).Error
	return results, err
}

package repository

import (
	"examdesk_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// QuestionFilter 列表查询条件，零值字段不参与过滤。
type QuestionFilter struct {
	GradeID        uint
	SubjectID      uint
	ApprovalStatus model.ApprovalStatus
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, id).Error
	return &question, err
}

// FindByIDs 按主键集合取题，结果数量可能小于入参数量。
func (r *QuestionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

// FindAll 按条件过滤，最新在前，并左联作者名用于展示。
func (r *QuestionRepository) FindAll(filter QuestionFilter) ([]model.QuestionListItem, error) {
	var items []model.QuestionListItem

	query := r.DB.Model(&model.Question{}).
		Select("questions.*, users.name AS author_name").
		Joins("LEFT JOIN users ON users.id = questions.created_by")

	if filter.GradeID != 0 {
		query = query.Where("questions.grade_id = ?", filter.GradeID)
	}
	if filter.SubjectID != 0 {
		query = query.Where("questions.subject_id = ?", filter.SubjectID)
	}
	if filter.ApprovalStatus != "" {
		query = query.Where("questions.approval_status = ?", filter.ApprovalStatus)
	}

	err := query.Order("questions.created_at DESC").Scan(&items).Error
	return items, err
}

func (r *QuestionRepository) Update(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *QuestionRepository) Delete(id uint) (int64, error) {
	result := r.DB.Delete(&model.Question{}, id)
	return result.RowsAffected, result.Error
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"examdesk_backend/internal/model"
	"examdesk_backend/internal/repository"
	"examdesk_backend/internal/util"
	"fmt"

	"gorm.io/gorm"
)

type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
	Metadata     *MetadataService
}

func NewQuestionService(questionRepo *repository.QuestionRepository, metadata *MetadataService) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		Metadata:     metadata,
	}
}

// QuestionInput 创建/更新共用的全量字段。
type QuestionInput struct {
	QuestionText string
	QuestionType string
	SubjectID    uint
	GradeID      uint
	Topic        string
	Difficulty   string
	Marks        int
	Options      []string
	Answer       string
}

// List 过滤查询，最新在前；学科/年级名称由元数据字典解析。
func (s *QuestionService) List(ctx context.Context, filter repository.QuestionFilter) ([]model.QuestionListItem, error) {
	items, err := s.QuestionRepo.FindAll(filter)
	if err != nil {
		return nil, err
	}

	subjectNames, err := s.metadataNames(ctx, "subjects")
	if err != nil {
		return nil, err
	}
	gradeNames, err := s.metadataNames(ctx, "grades")
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].SubjectName = subjectNames[items[i].SubjectID]
		items[i].GradeName = gradeNames[items[i].GradeID]
	}
	return items, nil
}

func (s *QuestionService) metadataNames(ctx context.Context, key string) (map[uint]string, error) {
	raw, err := s.Metadata.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	// 字典形状不符时名称留空，不让整张列表失败
	var entries []model.MetadataItem
	if err := json.Unmarshal(raw, &entries); err != nil {
		return map[uint]string{}, nil
	}

	names := make(map[uint]string, len(entries))
	for _, e := range entries {
		names[e.ID] = e.Name
	}
	return names, nil
}

// Create 录入新题。admin/owner 直接置为 approved，其余角色进入 pending。
func (s *QuestionService) Create(input QuestionInput, actor *util.Claims) (*model.Question, error) {
	options, err := json.Marshal(input.Options)
	if err != nil {
		return nil, err
	}

	status := model.ApprovalPending
	if actor.Role == model.Admin || actor.Role == model.Owner {
		status = model.ApprovalApproved
	}

	question := &model.Question{
		QuestionText:   input.QuestionText,
		QuestionType:   input.QuestionType,
		SubjectID:      input.SubjectID,
		GradeID:        input.GradeID,
		Topic:          input.Topic,
		Difficulty:     input.Difficulty,
		Marks:          input.Marks,
		Options:        options,
		Answer:         input.Answer,
		ApprovalStatus: status,
		CreatedBy:      actor.UserID,
	}

	if err := s.QuestionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) Get(id uint) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return question, err
}

// Update 全字段替换，返回更新后的行。
func (s *QuestionService) Update(id uint, input QuestionInput) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	options, err := json.Marshal(input.Options)
	if err != nil {
		return nil, err
	}

	question.QuestionText = input.QuestionText
	question.QuestionType = input.QuestionType
	question.SubjectID = input.SubjectID
	question.GradeID = input.GradeID
	question.Topic = input.Topic
	question.Difficulty = input.Difficulty
	question.Marks = input.Marks
	question.Options = options
	question.Answer = input.Answer

	if err := s.QuestionRepo.Update(question); err != nil {
		return nil, err
	}
	return s.QuestionRepo.FindByID(id)
}

// UpdateStatus 审批状态流转，仅接受封闭集合内的值。
func (s *QuestionService) UpdateStatus(id uint, status string) (*model.Question, error) {
	switch model.ApprovalStatus(status) {
	case model.ApprovalApproved, model.ApprovalRejected, model.ApprovalPending:
	default:
		return nil, fmt.Errorf("invalid approval status %q: %w", status, util.ErrValidation)
	}

	question, err := s.QuestionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	question.ApprovalStatus = model.ApprovalStatus(status)
	if err := s.QuestionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

// ToggleDisabled 软删除开关，与审批状态相互独立。
func (s *QuestionService) ToggleDisabled(id uint) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	question.Disabled = !question.Disabled
	if err := s.QuestionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) Delete(id uint) error {
	affected, err := s.QuestionRepo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return util.ErrNotFound
	}
	return nil
}

package service

import (
	"encoding/json"
	"errors"
	"examdesk_backend/internal/model"
	"examdesk_backend/internal/repository"
	"examdesk_backend/internal/util"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ExamService 考试组卷与判分。
// 考试的可判分内容是冻结的题目快照，而非对题库的外键联查：
// 题目在建卷之后被修改或删除，不影响已有考试的判分行为。
type ExamService struct {
	ExamRepo     *repository.ExamRepository
	QuestionRepo *repository.QuestionRepository
	ResultRepo   *repository.ResultRepository
	DB           *gorm.DB
}

func NewExamService(examRepo *repository.ExamRepository, questionRepo *repository.QuestionRepository, resultRepo *repository.ResultRepository, db *gorm.DB) *ExamService {
	return &ExamService{
		ExamRepo:     examRepo,
		QuestionRepo: questionRepo,
		ResultRepo:   resultRepo,
		DB:           db,
	}
}

// ExamInput 创建/更新考试的入参。更新时 QuestionIDs 为 nil
// 表示保留现有快照不动。
type ExamInput struct {
	Title           string
	SubjectID       uint
	DurationMinutes int
	ClassLevel      string
	Difficulty      string
	ScheduledStart  *time.Time
	ScheduledEnd    *time.Time
	IsQuiz          bool
	QuestionIDs     []uint
}

// buildSnapshot 将题目 id 集合物化为完整题目行的 JSON 快照。
// 任何 id 解析不到时整体失败，防止失效 id 悄悄截短一场考试。
func (s *ExamService) buildSnapshot(ids []uint) (json.RawMessage, error) {
	questions, err := s.QuestionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(questions) != len(ids) {
		return nil, fmt.Errorf("one or more questions could not be found: %w", util.ErrValidation)
	}
	return json.Marshal(questions)
}

func (s *ExamService) Create(input ExamInput, actor *util.Claims) (*model.Exam, error) {
	if input.Title == "" || input.SubjectID == 0 || len(input.QuestionIDs) == 0 {
		return nil, fmt.Errorf("title, subject_id and question_ids are required: %w", util.ErrValidation)
	}

	snapshot, err := s.buildSnapshot(input.QuestionIDs)
	if err != nil {
		return nil, err
	}

	exam := &model.Exam{
		Title:             input.Title,
		SubjectID:         input.SubjectID,
		DurationMinutes:   input.DurationMinutes,
		ClassLevel:        input.ClassLevel,
		Difficulty:        input.Difficulty,
		ScheduledStart:    input.ScheduledStart,
		ScheduledEnd:      input.ScheduledEnd,
		IsQuiz:            input.IsQuiz,
		QuestionsSnapshot: snapshot,
		CreatedBy:         actor.UserID,
	}

	if err := s.ExamRepo.Create(exam); err != nil {
		return nil, err
	}
	return exam, nil
}

// List 考试列表。列表视图不携带题目快照：完整快照仅教师侧详情可见，
// 学生侧通过试卷接口拿去除答案后的版本。
func (s *ExamService) List() ([]model.Exam, error) {
	exams, err := s.ExamRepo.FindAll()
	if err != nil {
		return nil, err
	}
	for i := range exams {
		exams[i].QuestionsSnapshot = nil
	}
	return exams, nil
}

func (s *ExamService) Get(id uint) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return exam, err
}

// Update 先做存在性检查再落库，避免把“没变更”误报成“不存在”。
// 仅当 QuestionIDs 显式给出时才重算快照。
func (s *ExamService) Update(id uint, input ExamInput) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	exam.Title = input.Title
	exam.SubjectID = input.SubjectID
	exam.DurationMinutes = input.DurationMinutes
	exam.ClassLevel = input.ClassLevel
	exam.Difficulty = input.Difficulty
	exam.ScheduledStart = input.ScheduledStart
	exam.ScheduledEnd = input.ScheduledEnd
	exam.IsQuiz = input.IsQuiz

	if input.QuestionIDs != nil {
		if len(input.QuestionIDs) == 0 {
			return nil, fmt.Errorf("question_ids must not be empty: %w", util.ErrValidation)
		}
		snapshot, err := s.buildSnapshot(input.QuestionIDs)
		if err != nil {
			return nil, err
		}
		exam.QuestionsSnapshot = snapshot
	}

	if err := s.ExamRepo.Update(exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) Delete(id uint) error {
	// 成绩行不随考试级联删除，作答记录作为审计数据保留
	affected, err := s.ExamRepo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// GetPaper 学生侧试卷视图：快照去掉正确答案后下发。
func (s *ExamService) GetPaper(id uint) (*model.Exam, error) {
	exam, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	var questions []model.Question
	if err := json.Unmarshal(exam.QuestionsSnapshot, &questions); err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].Answer = ""
	}

	stripped, err := json.Marshal(questions)
	if err != nil {
		return nil, err
	}
	exam.QuestionsSnapshot = stripped
	return exam, nil
}

// Submit 按快照判分：逐题比较去除首尾空白后的作答与标准答案，
// 大小写敏感，缺答按空串处理；total 恒等于快照题数。
// 读快照、算分、写成绩在同一事务内完成。
func (s *ExamService) Submit(examID uint, actor *util.Claims, answers map[string]string) (*model.QuizResult, error) {
	var result *model.QuizResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var exam model.Exam
		if err := tx.First(&exam, examID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrNotFound
			}
			return err
		}

		var questions []model.Question
		if err := json.Unmarshal(exam.QuestionsSnapshot, &questions); err != nil {
			return err
		}

		score := 0
		for _, q := range questions {
			submitted := strings.TrimSpace(answers[strconv.FormatUint(uint64(q.ID), 10)])
			if submitted == strings.TrimSpace(q.Answer) {
				score++
			}
		}

		rawAnswers, err := json.Marshal(answers)
		if err != nil {
			return err
		}

		// 用户行缺失时退回到令牌中的用户名，成绩行不得半空落库
		var student model.User
		if err := tx.First(&student, actor.UserID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			student.Name = actor.Username
		}

		result = &model.QuizResult{
			ExamID:          exam.ID,
			StudentName:     student.Name,
			StudentUsername: actor.Username,
			Score:           score,
			Total:           len(questions),
			Answers:         rawAnswers,
			SubmittedAt:     time.Now(),
		}
		return tx.Create(result).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Analytics 某场考试的全部成绩，分数降序。
func (s *ExamService) Analytics(examID uint) ([]model.QuizResult, error) {
	return s.ResultRepo.FindByExam(examID)
}

type QuestionStat struct {
	QuestionID   uint   `json:"questionId"`
	QuestionText string `json:"questionText"`
	CorrectCount int    `json:"correctCount"`
	AttemptCount int    `json:"attemptCount"`
}

type AnalyticsSummary struct {
	ExamID          uint           `json:"examId"`
	AverageScore    float64        `json:"averageScore"`
	SubmissionCount int            `json:"submissionCount"`
	QuestionStats   []QuestionStat `json:"questionStats"`
}

// AnalyticsSummary 聚合视图。无任何提交时返回零值聚合而非 404。
func (s *ExamService) AnalyticsSummary(examID uint) (*AnalyticsSummary, error) {
	exam, err := s.Get(examID)
	if err != nil {
		return nil, err
	}

	results, err := s.ResultRepo.FindByExam(examID)
	if err != nil {
		return nil, err
	}

	summary := &AnalyticsSummary{
		ExamID:        exam.ID,
		QuestionStats: []QuestionStat{},
	}
	if len(results) == 0 {
		return summary, nil
	}

	var questions []model.Question
	if err := json.Unmarshal(exam.QuestionsSnapshot, &questions); err != nil {
		return nil, err
	}

	stats := make([]QuestionStat, len(questions))
	totalScore := 0
	for i, q := range questions {
		stats[i] = QuestionStat{QuestionID: q.ID, QuestionText: q.QuestionText}
	}

	for _, r := range results {
		totalScore += r.Score

		var answers map[string]string
		if err := json.Unmarshal(r.Answers, &answers); err != nil {
			continue
		}
		for i, q := range questions {
			submitted, ok := answers[strconv.FormatUint(uint64(q.ID), 10)]
			if !ok {
				continue
			}
			stats[i].AttemptCount++
			if strings.TrimSpace(submitted) == strings.TrimSpace(q.Answer) {
				stats[i].CorrectCount++
			}
		}
	}

	summary.SubmissionCount = len(results)
	summary.AverageScore = float64(totalScore) / float64(len(results))
	summary.QuestionStats = stats
	return summary, nil
}

package service

import (
	"encoding/json"
	"strconv"
	"testing"

	"examdesk_backend/internal/model"
	"examdesk_backend/internal/repository"
	"examdesk_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newExamService(db *gorm.DB) *ExamService {
	return NewExamService(
		repository.NewExamRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewResultRepository(db),
		db,
	)
}

func seedQuestions(t *testing.T, db *gorm.DB, answers ...string) []uint {
	t.Helper()

	ids := make([]uint, 0, len(answers))
	for i, answer := range answers {
		q := &model.Question{
			QuestionText:   "question " + strconv.Itoa(i+1),
			QuestionType:   "mcq",
			SubjectID:      1,
			GradeID:        1,
			Marks:          1,
			Options:        json.RawMessage(`["a","b","c","d"]`),
			Answer:         answer,
			ApprovalStatus: model.ApprovalApproved,
			CreatedBy:      1,
		}
		require.NoError(t, db.Create(q).Error)
		ids = append(ids, q.ID)
	}
	return ids
}

func studentClaims(username string) *util.Claims {
	return &util.Claims{UserID: 1, Role: model.Student, Username: username}
}

func teacherClaims() *util.Claims {
	return &util.Claims{UserID: 2, Role: model.Teacher, Username: "teach"}
}

func TestExamCreateSnapshotsQuestions(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)
	ids := seedQuestions(t, db, "4", "Paris", "red")

	exam, err := svc.Create(ExamInput{Title: "midterm", SubjectID: 1, QuestionIDs: ids}, teacherClaims())
	require.NoError(t, err)
	require.NotZero(t, exam.ID)

	var snapshot []model.Question
	require.NoError(t, json.Unmarshal(exam.QuestionsSnapshot, &snapshot))
	require.Len(t, snapshot, 3)
	assert.Equal(t, "4", snapshot[0].Answer)
	assert.Equal(t, "Paris", snapshot[1].Answer)
	assert.Equal(t, "red", snapshot[2].Answer)
}

func TestExamCreateRejectsUnknownQuestionIDs(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)
	ids := seedQuestions(t, db, "4")

	_, err := svc.Create(ExamInput{Title: "midterm", SubjectID: 1, QuestionIDs: append(ids, 9999)}, teacherClaims())
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestExamCreateRequiresFields(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)

	_, err := svc.Create(ExamInput{Title: "", SubjectID: 1, QuestionIDs: []uint{1}}, teacherClaims())
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = svc.Create(ExamInput{Title: "t", SubjectID: 1}, teacherClaims())
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestSnapshotFrozenAgainstBankMutation(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)
	ids := seedQuestions(t, db, "4", "Paris", "red")

	exam, err := svc.Create(ExamInput{Title: "midterm", SubjectID: 1, QuestionIDs: ids}, teacherClaims())
	require.NoError(t, err)

	// 建卷后改答案、删题目，均不得影响已有考试的判分
	require.NoError(t, db.Model(&model.Question{}).Where("id = ?", ids[0]).Update("answer", "5").Error)
	require.NoError(t, db.Delete(&model.Question{}, ids[1]).Error)

	answers := map[string]string{
		strconv.FormatUint(uint64(ids[0]), 10): "4",
		strconv.FormatUint(uint64(ids[1]), 10): "Paris",
		strconv.FormatUint(uint64(ids[2]), 10): "red",
	}
	result, err := svc.Submit(exam.ID, studentClaims("sam"), answers)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, 3, result.Total)
}

func TestSubmitScoringRules(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)
	ids := seedQuestions(t, db, "4", "Paris", "red")

	exam, err := svc.Create(ExamInput{Title: "midterm", SubjectID: 1, QuestionIDs: ids}, teacherClaims())
	require.NoError(t, err)

	key := func(i int) string { return strconv.FormatUint(uint64(ids[i]), 10) }

	// 大小写敏感：q2 错答、q3 大小写不符，只有 q1 得分
	result, err := svc.Submit(exam.ID, studentClaims("sam"), map[string]string{
		key(0): "4",
		key(1): "london",
		key(2): "Red",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 3, result.Total)

	// 首尾空白不敏感
	result, err = svc.Submit(exam.ID, studentClaims("sam"), map[string]string{
		key(0): " 4 ",
		key(1): "Paris ",
		key(2): "red",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Score)

	// 缺答按空串处理
	result, err = svc.Submit(exam.ID, studentClaims("sam"), map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 3, result.Total)
}

func TestSubmitIsDeterministic(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)
	ids := seedQuestions(t, db, "4", "Paris")

	exam, err := svc.Create(ExamInput{Title: "quiz", SubjectID: 1, IsQuiz: true, QuestionIDs: ids}, teacherClaims())
	require.NoError(t, err)

	answers := map[string]string{
		strconv.FormatUint(uint64(ids[0]), 10): "4",
		strconv.FormatUint(uint64(ids[1]), 10): "paris",
	}

	first, err := svc.Submit(exam.ID, studentClaims("sam"), answers)
	require.NoError(t, err)
	second, err := svc.Submit(exam.ID, studentClaims("sam"), answers)
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Total, second.Total)

	// 无幂等键：重复提交产生两行
	results, err := svc.Analytics(exam.ID)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestListOmitsSnapshots(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)
	ids := seedQuestions(t, db, "4", "Paris")

	_, err := svc.Create(ExamInput{Title: "midterm", SubjectID: 1, QuestionIDs: ids}, teacherClaims())
	require.NoError(t, err)

	exams, err := svc.List()
	require.NoError(t, err)
	require.Len(t, exams, 1)
	assert.Empty(t, exams[0].QuestionsSnapshot)

	// 完整快照仍然在详情里
	detail, err := svc.Get(exams[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, detail.QuestionsSnapshot)
}

func TestSubmitAssignsAttemptID(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)
	ids := seedQuestions(t, db, "4")

	exam, err := svc.Create(ExamInput{Title: "quiz", SubjectID: 1, QuestionIDs: ids}, teacherClaims())
	require.NoError(t, err)

	first, err := svc.Submit(exam.ID, studentClaims("sam"), map[string]string{})
	require.NoError(t, err)
	second, err := svc.Submit(exam.ID, studentClaims("sam"), map[string]string{})
	require.NoError(t, err)

	assert.NotEmpty(t, first.AttemptID)
	assert.NotEmpty(t, second.AttemptID)
	assert.NotEqual(t, first.AttemptID, second.AttemptID)
}

func TestSubmitRecordsStudentIdentity(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)
	ids := seedQuestions(t, db, "4")

	exam, err := svc.Create(ExamInput{Title: "quiz", SubjectID: 1, QuestionIDs: ids}, teacherClaims())
	require.NoError(t, err)

	student := &model.User{Name: "Sam Lee", Username: "sam", Password: "x", Role: model.Student}
	require.NoError(t, db.Create(student).Error)

	result, err := svc.Submit(exam.ID, &util.Claims{UserID: student.ID, Role: model.Student, Username: "sam"}, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "Sam Lee", result.StudentName)
	assert.Equal(t, "sam", result.StudentUsername)

	// 用户行缺失时退回到令牌用户名
	result, err = svc.Submit(exam.ID, &util.Claims{UserID: 9999, Role: model.Student, Username: "ghost"}, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "ghost", result.StudentName)
}

func TestSubmitUnknownExam(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)

	_, err := svc.Submit(42, studentClaims("sam"), map[string]string{})
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestUpdateKeepsSnapshotUnlessQuestionIDsGiven(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)
	ids := seedQuestions(t, db, "4", "Paris")

	exam, err := svc.Create(ExamInput{Title: "midterm", SubjectID: 1, QuestionIDs: ids}, teacherClaims())
	require.NoError(t, err)
	original := exam.QuestionsSnapshot

	// QuestionIDs 为 nil：仅改元信息，快照保持不变
	updated, err := svc.Update(exam.ID, ExamInput{Title: "midterm v2", SubjectID: 1, DurationMinutes: 90})
	require.NoError(t, err)
	assert.Equal(t, "midterm v2", updated.Title)
	assert.JSONEq(t, string(original), string(updated.QuestionsSnapshot))

	// 显式给出 QuestionIDs：快照重算
	more := seedQuestions(t, db, "blue")
	updated, err = svc.Update(exam.ID, ExamInput{Title: "midterm v3", SubjectID: 1, QuestionIDs: more})
	require.NoError(t, err)

	var snapshot []model.Question
	require.NoError(t, json.Unmarshal(updated.QuestionsSnapshot, &snapshot))
	require.Len(t, snapshot, 1)
	assert.Equal(t, "blue", snapshot[0].Answer)
}

func TestUpdateUnknownExam(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)

	_, err := svc.Update(42, ExamInput{Title: "x", SubjectID: 1})
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestDeleteExam(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)
	ids := seedQuestions(t, db, "4")

	exam, err := svc.Create(ExamInput{Title: "midterm", SubjectID: 1, QuestionIDs: ids}, teacherClaims())
	require.NoError(t, err)

	_, err = svc.Submit(exam.ID, studentClaims("sam"), map[string]string{})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(exam.ID))
	assert.ErrorIs(t, svc.Delete(exam.ID), util.ErrNotFound)

	// 成绩不随考试级联删除
	results, err := svc.Analytics(exam.ID)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestGetPaperStripsAnswers(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)
	ids := seedQuestions(t, db, "4", "Paris")

	exam, err := svc.Create(ExamInput{Title: "midterm", SubjectID: 1, QuestionIDs: ids}, teacherClaims())
	require.NoError(t, err)

	paper, err := svc.GetPaper(exam.ID)
	require.NoError(t, err)

	var questions []model.Question
	require.NoError(t, json.Unmarshal(paper.QuestionsSnapshot, &questions))
	require.Len(t, questions, 2)
	for _, q := range questions {
		assert.Empty(t, q.Answer)
		assert.NotEmpty(t, q.QuestionText)
	}
}

func TestAnalyticsOrderingAndSummary(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)
	ids := seedQuestions(t, db, "4", "Paris")
	key := func(i int) string { return strconv.FormatUint(uint64(ids[i]), 10) }

	exam, err := svc.Create(ExamInput{Title: "midterm", SubjectID: 1, QuestionIDs: ids}, teacherClaims())
	require.NoError(t, err)

	// 无提交：零值聚合而非 404
	summary, err := svc.AnalyticsSummary(exam.ID)
	require.NoError(t, err)
	assert.Equal(t, exam.ID, summary.ExamID)
	assert.Zero(t, summary.SubmissionCount)
	assert.Zero(t, summary.AverageScore)
	assert.Empty(t, summary.QuestionStats)

	_, err = svc.Submit(exam.ID, studentClaims("low"), map[string]string{key(0): "9"})
	require.NoError(t, err)
	_, err = svc.Submit(exam.ID, studentClaims("high"), map[string]string{key(0): "4", key(1): "Paris"})
	require.NoError(t, err)

	results, err := svc.Analytics(exam.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "high", results[0].StudentUsername)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)

	summary, err = svc.AnalyticsSummary(exam.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.SubmissionCount)
	assert.InDelta(t, 1.0, summary.AverageScore, 0.001)
	require.Len(t, summary.QuestionStats, 2)
	assert.Equal(t, 1, summary.QuestionStats[0].CorrectCount)
	assert.Equal(t, 2, summary.QuestionStats[0].AttemptCount)
	assert.Equal(t, 1, summary.QuestionStats[1].CorrectCount)
	assert.Equal(t, 1, summary.QuestionStats[1].AttemptCount)
}

func TestAnalyticsSummaryUnknownExam(t *testing.T) {
	db := newTestDB(t)
	svc := newExamService(db)

	_, err := svc.AnalyticsSummary(42)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

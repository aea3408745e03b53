package model

import (
	"encoding/json"
	"time"
)

// Exam 考试定义。QuestionsSnapshot 是创建/更新时刻题目的冻结副本：
// 之后题库中的修改或删除不影响已创建考试的判分。
type Exam struct {
	BaseModel
	Title             string          `gorm:"size:255;not null" json:"title"`
	SubjectID         uint            `gorm:"index" json:"subjectId"`
	DurationMinutes   int             `gorm:"default:0" json:"durationMinutes"`
	ClassLevel        string          `gorm:"size:50" json:"classLevel"`
	Difficulty        string          `gorm:"size:20" json:"difficulty"`
	ScheduledStart    *time.Time      `json:"scheduledStart,omitempty"`
	ScheduledEnd      *time.Time      `json:"scheduledEnd,omitempty"`
	IsQuiz            bool            `gorm:"default:false" json:"isQuiz"`
	QuestionsSnapshot json.RawMessage `gorm:"type:json" json:"questionsSnapshot,omitempty"`
	CreatedBy         uint            `gorm:"index" json:"createdBy"`
}

func (Exam) TableName() string {
	return "exams"
}

package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// QuizResult 一次提交产生一行；Answers 保留学生原始作答作为审计记录。
// Score 在提交时刻按快照计算，之后不再重算。
type QuizResult struct {
	BaseModel
	AttemptID       string          `gorm:"size:36;uniqueIndex" json:"attemptId"`
	ExamID          uint            `gorm:"index" json:"examId"`
	StudentName     string          `gorm:"size:100" json:"studentName"`
	StudentUsername string          `gorm:"size:100;index" json:"studentUsername"`
	Score           int             `gorm:"not null" json:"score"`
	Total           int             `gorm:"not null" json:"total"`
	Answers         json.RawMessage `gorm:"type:json" json:"answers"`
	SubmittedAt     time.Time       `json:"submittedAt"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}

// BeforeCreate 每次提交分配独立的 attempt id，作为审计引用。
func (r *QuizResult) BeforeCreate(tx *gorm.DB) error {
	if r.AttemptID == "" {
		r.AttemptID = GenerateUUID()
	}
	return nil
}

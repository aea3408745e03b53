package model

import "encoding/json"

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Question 题库中的一道题。Options 为保序的选项文本数组（JSON）。
type Question struct {
	BaseModel
	QuestionText   string          `gorm:"type:text;not null" json:"questionText"`
	QuestionType   string          `gorm:"size:50;not null" json:"questionType"`
	SubjectID      uint            `gorm:"index" json:"subjectId"`
	GradeID        uint            `gorm:"index" json:"gradeId"`
	Topic          string          `gorm:"size:255" json:"topic"`
	Difficulty     string          `gorm:"size:20" json:"difficulty"`
	Marks          int             `gorm:"default:1" json:"marks"`
	Options        json.RawMessage `gorm:"type:json" json:"options"`
	Answer         string          `gorm:"type:text" json:"answer"`
	ApprovalStatus ApprovalStatus  `gorm:"size:20;default:'pending'" json:"approvalStatus"`
	Disabled       bool            `gorm:"default:false" json:"disabled"`
	CreatedBy      uint            `gorm:"index" json:"createdBy"`
}

func (Question) TableName() string {
	return "questions"
}

// QuestionListItem 列表展示用：附带分类名称与作者名。
type QuestionListItem struct {
	Question
	SubjectName string `json:"subjectName"`
	GradeName   string `json:"gradeName"`
	AuthorName  string `json:"authorName"`
}

package model

import "github.com/lib/pq"

// MaxTitleLength matches the questions.title column, in characters.
const MaxTitleLength = 255

type Question struct {
	ID        int64          `db:"id" json:"id"`
	Title     string         `db:"title" json:"title"`
	Content   string         `db:"content" json:"content"`
	Tags      pq.StringArray `db:"tags" json:"tags"`
	AccountID int64          `db:"account_id" json:"account_id"`
}

// QuestionInput is the request body for creating or replacing a question.
type QuestionInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

type CreateQuestionParams struct {
	Title     string
	Content   string
	Tags      []string
	AccountID int64
}

type UpdateQuestionParams struct {
	Title   string
	Content string
	Tags    []string
}

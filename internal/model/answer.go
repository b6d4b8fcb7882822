package model

type Answer struct {
	ID         int64  `db:"id" json:"id"`
	Content    string `db:"content" json:"content"`
	QuestionID int64  `db:"corresponding_question" json:"question_id"`
	AccountID  int64  `db:"account_id" json:"account_id"`
}

type AnswerInput struct {
	Content    string `json:"content"`
	QuestionID int64  `json:"question_id"`
}

type CreateAnswerParams struct {
	Content    string
	QuestionID int64
	AccountID  int64
}

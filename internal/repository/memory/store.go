// Package memory implements the repository interfaces on top of maps. It
// follows the Postgres constraints the handlers rely on: unique emails,
// answers that reference an existing question, and cascading deletes.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/questionhub/qa-server-go/internal/model"
	"github.com/questionhub/qa-server-go/internal/repository"
)

// Store holds every table. The repositories returned by its accessors share
// one lock so cross-table rules stay consistent.
type Store struct {
	mu sync.RWMutex

	accounts  map[int64]model.Account
	questions map[int64]model.Question
	answers   map[int64]model.Answer

	nextAccountID  int64
	nextQuestionID int64
	nextAnswerID   int64
}

func NewStore() *Store {
	return &Store{
		accounts:  make(map[int64]model.Account),
		questions: make(map[int64]model.Question),
		answers:   make(map[int64]model.Answer),
	}
}

func (s *Store) Accounts() repository.AccountRepository   { return accountRepo{s} }
func (s *Store) Questions() repository.QuestionRepository { return questionRepo{s} }
func (s *Store) Answers() repository.AnswerRepository     { return answerRepo{s} }

type accountRepo struct{ s *Store }

func (r accountRepo) FindByID(_ context.Context, id int64) (*model.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	account, ok := r.s.accounts[id]
	if !ok {
		return nil, nil
	}
	return &account, nil
}

func (r accountRepo) FindByEmail(_ context.Context, email string) (*model.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, account := range r.s.accounts {
		if account.Email == email {
			return &account, nil
		}
	}
	return nil, nil
}

func (r accountRepo) Create(_ context.Context, params model.CreateAccountParams) (*model.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, account := range r.s.accounts {
		if account.Email == params.Email {
			return nil, repository.ErrDuplicate
		}
	}

	r.s.nextAccountID++
	account := model.Account{
		ID:       r.s.nextAccountID,
		Email:    params.Email,
		Password: params.PasswordHash,
	}
	r.s.accounts[account.ID] = account
	return &account, nil
}

type questionRepo struct{ s *Store }

func (r questionRepo) FindAll(_ context.Context, page model.Pagination) ([]model.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]model.Question, 0, len(r.s.questions))
	for _, q := range r.s.questions {
		all = append(all, cloneQuestion(q))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if page.Offset >= len(all) {
		return []model.Question{}, nil
	}
	all = all[page.Offset:]
	if page.Limit != nil && *page.Limit < len(all) {
		all = all[:*page.Limit]
	}
	return all, nil
}

func (r questionRepo) FindByID(_ context.Context, id int64) (*model.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q, ok := r.s.questions[id]
	if !ok {
		return nil, nil
	}
	q = cloneQuestion(q)
	return &q, nil
}

func (r questionRepo) Create(_ context.Context, params model.CreateQuestionParams) (*model.Question, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[params.AccountID]; !ok {
		return nil, repository.ErrMissingReference
	}

	r.s.nextQuestionID++
	q := model.Question{
		ID:        r.s.nextQuestionID,
		Title:     params.Title,
		Content:   params.Content,
		Tags:      copyTags(params.Tags),
		AccountID: params.AccountID,
	}
	r.s.questions[q.ID] = q
	q = cloneQuestion(q)
	return &q, nil
}

func (r questionRepo) Update(_ context.Context, id int64, params model.UpdateQuestionParams) (*model.Question, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	q, ok := r.s.questions[id]
	if !ok {
		return nil, nil
	}
	q.Title = params.Title
	q.Content = params.Content
	q.Tags = copyTags(params.Tags)
	r.s.questions[id] = q
	q = cloneQuestion(q)
	return &q, nil
}

func (r questionRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.questions[id]; !ok {
		return false, nil
	}
	delete(r.s.questions, id)
	for answerID, a := range r.s.answers {
		if a.QuestionID == id {
			delete(r.s.answers, answerID)
		}
	}
	return true, nil
}

func (r questionRepo) IsOwner(_ context.Context, id, accountID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q, ok := r.s.questions[id]
	return ok && q.AccountID == accountID, nil
}

type answerRepo struct{ s *Store }

func (r answerRepo) Create(_ context.Context, params model.CreateAnswerParams) (*model.Answer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.questions[params.QuestionID]; !ok {
		return nil, repository.ErrMissingReference
	}
	if _, ok := r.s.accounts[params.AccountID]; !ok {
		return nil, repository.ErrMissingReference
	}

	r.s.nextAnswerID++
	a := model.Answer{
		ID:         r.s.nextAnswerID,
		Content:    params.Content,
		QuestionID: params.QuestionID,
		AccountID:  params.AccountID,
	}
	r.s.answers[a.ID] = a
	return &a, nil
}

func (r answerRepo) FindByQuestionID(_ context.Context, questionID int64) ([]model.Answer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	answers := []model.Answer{}
	for _, a := range r.s.answers {
		if a.QuestionID == questionID {
			answers = append(answers, a)
		}
	}
	sort.Slice(answers, func(i, j int) bool { return answers[i].ID < answers[j].ID })
	return answers, nil
}

func cloneQuestion(q model.Question) model.Question {
	q.Tags = copyTags(q.Tags)
	return q
}

func copyTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	return append([]string{}, tags...)
}

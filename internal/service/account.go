package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	apperrors "github.com/questionhub/qa-server-go/internal/errors"
	"github.com/questionhub/qa-server-go/internal/model"
	"github.com/questionhub/qa-server-go/internal/repository"
	"github.com/questionhub/qa-server-go/internal/util"
)

// TokenIssuer signs a session token for an account.
type TokenIssuer interface {
	Issue(accountID int64) (string, error)
}

// decoyPassword is hashed once to give unknown emails a hash to verify against.
const decoyPassword = "decoy password for unknown accounts"

type AccountService struct {
	accountRepo repository.AccountRepository
	tokens      TokenIssuer
	hash        func(password []byte) (string, error)
	verify      func(encoded string, password []byte) (bool, error)

	decoyOnce sync.Once
	decoy     string
}

func NewAccountService(accountRepo repository.AccountRepository, tokens TokenIssuer) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		tokens:      tokens,
		hash:        util.HashPassword,
		verify:      util.VerifyPassword,
	}
}

func (s *AccountService) Register(ctx context.Context, creds model.Credentials) (*model.Account, error) {
	email := strings.TrimSpace(creds.Email)
	if email == "" {
		return nil, apperrors.MissingRequired("email")
	}
	if utf8.RuneCountInString(email) > model.MaxEmailLength {
		return nil, apperrors.InvalidInput("email", fmt.Sprintf("must be at most %d characters", model.MaxEmailLength))
	}
	if creds.Password == "" {
		return nil, apperrors.MissingRequired("password")
	}

	hash, err := s.hash([]byte(creds.Password))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to hash password", err)
	}

	account, err := s.accountRepo.Create(ctx, model.CreateAccountParams{
		Email:        email,
		PasswordHash: hash,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperrors.AlreadyExists("Account")
	}
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().Int64("accountId", account.ID).Msg("account registered")
	return account, nil
}

// Login verifies the credentials and returns a signed session token together
// with the account it was issued for.
func (s *AccountService) Login(ctx context.Context, creds model.Credentials) (string, *model.Account, error) {
	account, err := s.accountRepo.FindByEmail(ctx, strings.TrimSpace(creds.Email))
	if err != nil {
		return "", nil, apperrors.Database(err)
	}
	if account == nil {
		// same argon2 cost as a wrong password
		_, _ = s.verify(s.decoyHash(), []byte(creds.Password))
		return "", nil, apperrors.WrongPassword()
	}

	ok, err := s.verify(account.Password, []byte(creds.Password))
	if err != nil {
		log.Error().Err(err).Int64("accountId", account.ID).Msg("stored password hash is unreadable")
		return "", account, apperrors.WrongPassword().WithCause(err)
	}
	if !ok {
		return "", account, apperrors.WrongPassword()
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return "", account, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to issue session token", err)
	}

	return token, account, nil
}

func (s *AccountService) decoyHash() string {
	s.decoyOnce.Do(func() {
		hash, err := s.hash([]byte(decoyPassword))
		if err != nil {
			log.Error().Err(err).Msg("failed to hash decoy password")
			return
		}
		s.decoy = hash
	})
	return s.decoy
}

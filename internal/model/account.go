package model

// MaxEmailLength matches the accounts.email column, in characters.
const MaxEmailLength = 255

type Account struct {
	ID       int64  `db:"id" json:"id"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
}

type CreateAccountParams struct {
	Email        string
	PasswordHash string
}

// Credentials is the body of both registration and login requests.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

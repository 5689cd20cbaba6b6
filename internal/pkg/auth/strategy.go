package auth

import "time"

// Claims carries the identity attached to an issued token.
type Claims struct {
	UserID int64
	Admin  bool
}

type Strategy interface {
	IssueToken(userID int64, admin bool) (string, error)
	ParseToken(token string) (*Claims, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}

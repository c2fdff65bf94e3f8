package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a username/password pair is not accepted.
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is an authenticated principal.
type User struct {
	ID         int    `mapstructure:"id"`
	Username   string `mapstructure:"username"`
	GivenName  string `mapstructure:"givenName"`
	FamilyName string `mapstructure:"familyName"`
	Role       string `mapstructure:"role"`
}

// Subject returns the token subject for the user.
func (u User) Subject() string {
	return strconv.Itoa(u.ID)
}

// CredentialValidator checks a username/password pair.
type CredentialValidator interface {
	ValidateCredentials(ctx context.Context, username, password string) (*User, error)
}

// PlaceholderUser is returned by PlaceholderCredentials for any input.
var PlaceholderUser = User{ID: 1, Username: "playnoteTester123", GivenName: "John", FamilyName: "Doe"}

// PlaceholderCredentials accepts every username/password pair and returns
// PlaceholderUser. It exists for local demos only and logs a warning on each use.
type PlaceholderCredentials struct {
	Logger *slog.Logger
}

func (p PlaceholderCredentials) ValidateCredentials(ctx context.Context, username, _ string) (*User, error) {
	if p.Logger != nil {
		p.Logger.WarnContext(ctx, "placeholder login accepted without checking credentials",
			slog.String("username", username))
	}
	u := PlaceholderUser
	return &u, nil
}

type storedUser struct {
	User         `mapstructure:",squash"`
	PasswordHash string `mapstructure:"passwordHash"`
}

// StaticCredentials checks passwords against bcrypt hashes loaded once at startup.
// The zero value rejects everyone.
type StaticCredentials struct {
	users map[string]storedUser
}

// LoadStaticCredentials reads a users file (YAML, JSON or TOML) of the form
//
//	users:
//	  - id: 1
//	    username: alice
//	    passwordHash: $2a$10$...
//	    givenName: Alice
//	    familyName: Smith
//	    role: admin
func LoadStaticCredentials(path string) (*StaticCredentials, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}

	var entries []storedUser
	if err := v.UnmarshalKey("users", &entries); err != nil {
		return nil, fmt.Errorf("decode users file: %w", err)
	}

	store := &StaticCredentials{users: make(map[string]storedUser, len(entries))}
	for i, e := range entries {
		if e.Username == "" || e.PasswordHash == "" {
			return nil, fmt.Errorf("users file entry %d: username and passwordHash are required", i)
		}
		if _, dup := store.users[e.Username]; dup {
			return nil, fmt.Errorf("users file entry %d: duplicate username %q", i, e.Username)
		}
		if _, err := bcrypt.Cost([]byte(e.PasswordHash)); err != nil {
			return nil, fmt.Errorf("users file entry %d: %w", i, err)
		}
		store.users[e.Username] = e
	}
	return store, nil
}

// Len reports how many users are known.
func (s *StaticCredentials) Len() int {
	return len(s.users)
}

func (s *StaticCredentials) ValidateCredentials(_ context.Context, username, password string) (*User, error) {
	stored, ok := s.users[username]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	u := stored.User
	return &u, nil
}

// HashPassword returns a bcrypt hash suitable for a users file.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// NewCredentialValidator picks the credential check for the given settings.
// A users file wins over the placeholder; with neither every login fails.
func NewCredentialValidator(usersFile string, allowPlaceholder bool, logger *slog.Logger) (CredentialValidator, error) {
	switch {
	case usersFile != "":
		store, err := LoadStaticCredentials(usersFile)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded static credentials", slog.String("file", usersFile), slog.Int("users", store.Len()))
		return store, nil
	case allowPlaceholder:
		logger.Warn("placeholder login is enabled; any username and password will be accepted")
		return PlaceholderCredentials{Logger: logger}, nil
	default:
		logger.Warn("no credential store configured; all logins will be rejected")
		return &StaticCredentials{}, nil
	}
}

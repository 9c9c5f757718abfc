package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/roshil-6/TONIO-SENORA/internal/auth"
	"github.com/roshil-6/TONIO-SENORA/internal/models"
	"github.com/roshil-6/TONIO-SENORA/internal/repository"
)

// AdminID is the id of the seeded admin account.
const AdminID = "admin-001"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthService struct {
	users     *repository.UserRepo
	sessions  *repository.SessionRepo
	gate      *auth.Gate
	jwtSecret string
}

func NewAuthService(d Deps, gate *auth.Gate, jwtSecret string) *AuthService {
	return &AuthService{
		users:     repository.NewUserRepo(d.Root),
		sessions:  repository.NewSessionRepo(d.Root),
		gate:      gate,
		jwtSecret: jwtSecret,
	}
}

// LoginResult carries the session token and where the browser goes next.
type LoginResult struct {
	Token    string        `json:"token"`
	User     models.User   `json:"user"`
	Redirect auth.Redirect `json:"redirect"`
}

// Register creates a client account. Registering as admin is refused; any
// other account type is stored as client.
func (s *AuthService) Register(ctx context.Context, name, email, password, accountType string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" || accountType == "" {
		return nil, ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if utf8.RuneCountInString(name) < 2 {
		return nil, ErrShortName
	}
	if utf8.RuneCountInString(password) < 6 {
		return nil, ErrShortPassword
	}
	if accountType == models.RoleAdmin {
		return nil, ErrAdminRegister
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := models.StoredUser{
		User: models.User{
			ID:          uuid.NewString(),
			Name:        name,
			Email:       email,
			AccountType: models.RoleClient,
			CreatedAt:   now(),
		},
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return &user.User, nil
}

// Login checks the credentials and opens a new session for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}
	stored, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if stored == nil || !auth.CheckPassword(password, stored.PasswordHash) {
		return nil, ErrInvalidLogin
	}

	sid := uuid.NewString()
	if err := s.sessions.Create(ctx, sid, stored.User); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	token, err := auth.GenerateToken(s.jwtSecret, sid, stored.ID, stored.Email, stored.AccountType)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:    token,
		User:     stored.User,
		Redirect: s.gate.RedirectAfterLogin(stored.AccountType),
	}, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	stored, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return &stored.User, nil
}

// Logout ends the session and returns the redirect to the entry page.
func (s *AuthService) Logout(ctx context.Context, sessionID string) (auth.Redirect, error) {
	return s.gate.Logout(ctx, sessionID)
}

// SeedAdmin creates the admin account unless one with email exists.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return ErrMissingFields
	}
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	err = s.users.Create(ctx, models.StoredUser{
		User: models.User{
			ID:          AdminID,
			Name:        "Admin",
			Email:       email,
			AccountType: models.RoleAdmin,
			CreatedAt:   now(),
		},
		PasswordHash: hash,
	})
	if errors.Is(err, repository.ErrEmailTaken) {
		return nil
	}
	return err
}

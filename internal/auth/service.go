package auth

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/mrlokans/librarian/internal/database/users"
	"github.com/mrlokans/librarian/internal/entities"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.@+-]{1,100}$`)

var (
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrUsernameInvalid    = errors.New("username may only contain letters, digits and @/./+/-/_")
	ErrInvalidRole        = errors.New("invalid user_type")
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
)

// Service handles account creation and credential checks.
type Service struct {
	users      *users.Repository
	bcryptCost int
}

// NewService creates an authentication service.
func NewService(users *users.Repository, bcryptCost int) *Service {
	return &Service{
		users:      users,
		bcryptCost: bcryptCost,
	}
}

// CreateUser creates a user with the given role. When the username is
// already taken the existing user is returned with created=false, no
// error: account creation is idempotent on username.
func (s *Service) CreateUser(username, password string, role entities.UserRole) (*entities.User, bool, error) {
	if username == "" {
		return nil, false, ErrUsernameRequired
	}
	if password == "" {
		return nil, false, ErrPasswordRequired
	}
	if !usernamePattern.MatchString(username) {
		return nil, false, ErrUsernameInvalid
	}

	switch role {
	case entities.UserRoleClient, entities.UserRoleStaff:
	default:
		return nil, false, ErrInvalidRole
	}

	existing, err := s.users.GetByUsername(username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, users.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, users.ErrExists) {
			// Lost a create race; hand back the winner.
			if existing, getErr := s.users.GetByUsername(username); getErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	return user, true, nil
}

// Authenticate validates credentials and returns the user. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	return s.users.GetByID(id)
}

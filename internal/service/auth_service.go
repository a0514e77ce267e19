package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"deepfake-guard/internal/domain"
	"deepfake-guard/internal/repository"
)

// AuthService coordina registro, autenticación y resolución de identidad.
type AuthService struct {
	logger *zap.Logger
	users  repository.UserRepository
	hasher *PasswordHasher
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, hasher *PasswordHasher) *AuthService {
	if hasher == nil {
		hasher = NewPasswordHasher()
	}
	return &AuthService{
		logger: logger,
		users:  users,
		hasher: hasher,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError transporta el mensaje del primer campo inválido.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Register valida, verifica duplicados, hashea e inserta el usuario.
// El índice único de la tabla es la autoridad final contra registros
// concurrentes con el mismo email; el pre-chequeo solo mejora el mensaje.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("auth service not configured")
	}

	name := strings.TrimSpace(input.Name)
	emailAddr := normalizeEmail(input.Email)

	if err := validateName(name); err != nil {
		return domain.User{}, err
	}
	if err := validateEmail(emailAddr); err != nil {
		return domain.User{}, err
	}
	if err := validatePassword(input.Password); err != nil {
		return domain.User{}, err
	}

	_, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return domain.User{}, ErrDuplicateEmail
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return domain.User{}, err
	}

	createdAt := time.Now().UTC()
	id, err := s.users.Create(ctx, name, emailAddr, passwordHash, createdAt)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, err
	}

	return domain.User{
		ID:           id,
		Name:         name,
		Email:        emailAddr,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	}, nil
}

// Authenticate verifica credenciales de login. Email inexistente y
// contraseña incorrecta devuelven el mismo error para no filtrar
// qué caso ocurrió.
func (s *AuthService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("auth service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	if err := validateEmail(emailAddr); err != nil {
		return domain.User{}, err
	}
	if password == "" {
		return domain.User{}, &ValidationError{Field: "password", Message: "Password is required"}
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser resuelve la identidad del caller autenticado.
func (s *AuthService) GetUser(ctx context.Context, id int64) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("auth service not configured")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func validateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 100 {
		return &ValidationError{Field: "name", Message: "Name must be between 2 and 100 characters"}
	}
	return nil
}

func validateEmail(emailAddr string) error {
	if emailAddr == "" || len(emailAddr) > 255 {
		return &ValidationError{Field: "email", Message: "Email must be a valid address of at most 255 characters"}
	}
	addr, err := mail.ParseAddress(emailAddr)
	if err != nil || addr.Address != emailAddr {
		return &ValidationError{Field: "email", Message: "Email must be a valid address"}
	}
	return nil
}

func validatePassword(password string) error {
	n := len(password)
	if n < 8 || n > 100 {
		return &ValidationError{Field: "password", Message: "Password must be between 8 and 100 characters"}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/bptrack/bptrack-backend/internal/auth"
	"github.com/bptrack/bptrack-backend/internal/config"
	"github.com/bptrack/bptrack-backend/internal/dto"
	"github.com/bptrack/bptrack-backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken = errors.New("user with this email already exists")
	// ErrInvalidCredentials is deliberately the same whether the email is
	// unknown or the password is wrong, so login failures do not reveal
	// which accounts exist.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Register creates a user with a bcrypt-hashed password. The email is
// normalized to lowercase before the duplicate check and insert; the unique
// index on users.email backs the check against concurrent registrations.
func (s *AuthService) Register(req *dto.RegisterRequest) (*models.User, error) {
	email := NormalizeEmail(req.Email)
	if err := validateRegistration(req.Name, email, req.Password); err != nil {
		return nil, err
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// VerifyCredentials looks the user up by normalized email and compares the
// password against the stored bcrypt hash.
func (s *AuthService) VerifyCredentials(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// Login verifies the credentials and issues a bearer token embedding
// {sub, email, name}, valid for the configured expiry.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.VerifyCredentials(req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := auth.IssueToken(user, []byte(s.cfg.JWTSecret), s.cfg.JWTExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &dto.AuthResponse{
		Token: token,
		User:  toUserResponse(user),
	}, nil
}

func (s *AuthService) GetUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// UpdateProfile applies only the provided fields. A changed email is
// re-normalized and re-validated and must remain unique.
func (s *AuthService) UpdateProfile(userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, &ValidationError{Fields: []string{"name must not be empty"}}
		}
		user.Name = *req.Name
	}
	if req.Email != nil {
		email := NormalizeEmail(*req.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		user.Email = email
	}

	if err := s.db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteAccount removes the user after re-checking the password. The delete
// is unscoped: a soft-deleted row would keep holding the unique email index
// and block the address from ever registering again. Readings are
// intentionally left in place; there is no cascading delete.
func (s *AuthService) DeleteAccount(userID uuid.UUID, password string) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return s.db.Unscoped().Delete(user).Error
}

// NormalizeEmail lowercases and trims an address so lookups and the unique
// index are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(name, email, password string) error {
	var fields []string
	if strings.TrimSpace(name) == "" {
		fields = append(fields, "name must not be empty")
	}
	if err := validateEmail(email); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			fields = append(fields, ve.Fields...)
		}
	}
	if len(password) < 8 {
		fields = append(fields, "password must be at least 8 characters")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) == 0 || len(email) > 255 {
		return &ValidationError{Fields: []string{"email must be between 1 and 255 characters"}}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &ValidationError{Fields: []string{"email must be a valid address"}}
	}
	return nil
}

func toUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

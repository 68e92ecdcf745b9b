package services

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"weighscale/internal/models"
	"weighscale/internal/redis"
	"weighscale/internal/repository"
	"weighscale/pkg/cloud"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	localSessionTTL = 7 * 24 * time.Hour
	cloudSessionTTL = 24 * time.Hour
	bcryptCost      = 10
)

// TokenValidator validates a cloud access token against the external
// identity service.
type TokenValidator interface {
	ValidateToken(token string) (*cloud.ValidateTokenResponse, error)
}

// CloudUser is the synthetic identity attached to a delegated session. It
// has no local_users row.
type CloudUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type AuthService interface {
	Login(username, password string) (*models.LocalUser, *models.Session, error)
	Logout(sessionID string) error
	ValidateSession(sessionID string) (*models.LocalUser, *models.Session, error)
	CreateUser(username, password, name, role string) (*models.LocalUser, error)
	ChangePassword(userID uint, currentPassword, newPassword string) error
	CloudLogin(token string) (*CloudUser, *models.Session, error)
}

type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	cache       *redis.Client // optional; nil disables session caching
	cloudClient TokenValidator
	logger      *slog.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	cache *redis.Client,
	cloudClient TokenValidator,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cache:       cache,
		cloudClient: cloudClient,
		logger:      logger,
	}
}

func (s *authService) Login(username, password string) (*models.LocalUser, *models.Session, error) {
	user, err := s.userRepo.GetByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    strconv.FormatUint(uint64(user.ID), 10),
		ExpiresAt: time.Now().Add(localSessionTTL),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, nil, err
	}

	s.cacheSession(session, user)
	return user, session, nil
}

func (s *authService) Logout(sessionID string) error {
	if s.cache != nil {
		if err := s.cache.DeleteSession(sessionID); err != nil {
			s.logger.Warn("failed to evict session from cache", "error", err)
		}
	}
	return s.sessionRepo.Delete(sessionID)
}

func (s *authService) ValidateSession(sessionID string) (*models.LocalUser, *models.Session, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSession(sessionID); err == nil {
			if time.Now().After(cached.ExpiresAt) {
				return nil, nil, ErrSessionExpired
			}
			session := &models.Session{
				ID:        sessionID,
				UserID:    strconv.FormatUint(uint64(cached.User.ID), 10),
				ExpiresAt: cached.ExpiresAt,
			}
			return &cached.User, session, nil
		}
	}

	session, err := s.sessionRepo.Get(sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrSessionExpired
	}
	if err != nil {
		return nil, nil, err
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, nil, ErrSessionExpired
	}

	// Delegated sessions carry a prefixed user id and have no local user
	// row, so they do not validate here.
	userID, err := strconv.ParseUint(session.UserID, 10, 64)
	if err != nil {
		return nil, nil, ErrSessionExpired
	}
	user, err := s.userRepo.GetByID(uint(userID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrSessionExpired
	}
	if err != nil {
		return nil, nil, err
	}

	s.cacheSession(session, user)
	return user, session, nil
}

func (s *authService) CreateUser(username, password, name, role string) (*models.LocalUser, error) {
	if role == "" {
		role = string(models.RoleOperator)
	}
	if role != string(models.RoleAdmin) && role != string(models.RoleOperator) {
		return nil, ErrInvalidRole
	}

	_, err := s.userRepo.GetByUsername(username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.LocalUser{
		Username:     username,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(userID, string(hash))
}

func (s *authService) CloudLogin(token string) (*CloudUser, *models.Session, error) {
	resp, err := s.cloudClient.ValidateToken(token)
	if err != nil {
		return nil, nil, err
	}
	if !resp.Valid {
		return nil, nil, ErrInvalidToken
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    models.CloudUserPrefix + resp.UserID,
		ExpiresAt: time.Now().Add(cloudSessionTTL),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, nil, err
	}

	user := &CloudUser{
		ID:       session.UserID,
		Username: "cloud_user",
		Name:     "Cloud User",
		Role:     string(models.RoleOperator),
	}
	return user, session, nil
}

func (s *authService) cacheSession(session *models.Session, user *models.LocalUser) {
	if s.cache == nil {
		return
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return
	}
	err := s.cache.SetSession(session.ID, &redis.CachedSession{
		User:      *user,
		ExpiresAt: session.ExpiresAt,
	}, ttl)
	if err != nil {
		s.logger.Warn("failed to cache session", "error", err)
	}
}

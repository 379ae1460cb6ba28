package service

import (
	"context"
	"errors"
	"time"

	"fincompare/internal/dto"
	"fincompare/internal/models"
	"fincompare/pkg/auth"
	"fincompare/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidOTP         = errors.New("invalid or expired OTP code")
)

type userStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type otpStore interface {
	Create(ctx context.Context, otp *models.OTPCode) error
	GetLatest(ctx context.Context, userID uuid.UUID, purpose models.OTPPurpose) (*models.OTPCode, error)
	Consume(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type AuthService struct {
	users      userStore
	otps       otpStore
	jwtManager *auth.JWTManager
	otpConfig  *config.OTPConfig
	logger     *zap.Logger
}

func NewAuthService(users userStore, otps otpStore, jwtManager *auth.JWTManager, otpConfig *config.OTPConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		otps:       otps,
		jwtManager: jwtManager,
		otpConfig:  otpConfig,
		logger:     logger,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	existingUser, _ := s.users.GetByEmail(ctx, req.Email)
	if existingUser != nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.New(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.tokenResponse(user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.tokenResponse(user)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.jwtManager.ValidateToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	return s.tokenResponse(user)
}

// RequestOTP issues a short-lived login code for the user. Delivery is out
// of scope for the API; the code is written to the log so an operator or a
// downstream notifier can pick it up.
func (s *AuthService) RequestOTP(ctx context.Context, email string) (*dto.OTPIssuedResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrUserNotFound
	}

	code, err := auth.GenerateOTPCode(s.otpConfig.Length)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	otp := &models.OTPCode{
		ID:        uuid.New(),
		UserID:    user.ID,
		Code:      code,
		Purpose:   models.OTPPurposeLogin,
		ExpiresAt: now.Add(s.otpConfig.TTL),
		CreatedAt: now,
	}

	if err := s.otps.Create(ctx, otp); err != nil {
		return nil, err
	}

	s.logger.Info("OTP code issued",
		zap.String("user_id", user.ID.String()),
		zap.Time("expires_at", otp.ExpiresAt),
	)
	s.logger.Debug("OTP code value", zap.String("code", code))

	return &dto.OTPIssuedResponse{
		Message:   "OTP code issued",
		ExpiresAt: otp.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// VerifyOTP redeems the latest issued code for the user. Expired, already
// consumed, or mismatched codes are all rejected the same way.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidOTP
	}

	otp, err := s.otps.GetLatest(ctx, user.ID, models.OTPPurposeLogin)
	if err != nil {
		return nil, ErrInvalidOTP
	}

	now := time.Now()
	if !otp.Usable(now) || otp.Code != code {
		return nil, ErrInvalidOTP
	}

	if err := s.otps.Consume(ctx, otp.ID, now); err != nil {
		return nil, err
	}

	return s.tokenResponse(user)
}

// PurgeExpiredOTPs removes codes whose expiry has passed. Run periodically.
func (s *AuthService) PurgeExpiredOTPs(ctx context.Context) error {
	deleted, err := s.otps.DeleteExpired(ctx, time.Now())
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.logger.Info("Purged expired OTP codes", zap.Int64("count", deleted))
	}
	return nil
}

func (s *AuthService) tokenResponse(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateToken(user.ID.String(), user.Username, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwtManager.GetTokenDuration().Seconds()),
		User: dto.UserResponse{
			ID:        user.ID.String(),
			Username:  user.Username,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
	}, nil
}

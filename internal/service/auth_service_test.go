package service

import (
	"context"
	"testing"
	"time"

	"fincompare/internal/dto"
	"fincompare/internal/models"
	"fincompare/pkg/auth"
	"fincompare/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]*models.User),
		byID:    make(map[uuid.UUID]*models.User),
	}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

type fakeOTPStore struct {
	codes []*models.OTPCode
}

func (f *fakeOTPStore) Create(_ context.Context, otp *models.OTPCode) error {
	f.codes = append(f.codes, otp)
	return nil
}

func (f *fakeOTPStore) GetLatest(_ context.Context, userID uuid.UUID, purpose models.OTPPurpose) (*models.OTPCode, error) {
	var latest *models.OTPCode
	for _, otp := range f.codes {
		if otp.UserID != userID || otp.Purpose != purpose {
			continue
		}
		if latest == nil || otp.CreatedAt.After(latest.CreatedAt) {
			latest = otp
		}
	}
	if latest == nil {
		return nil, ErrInvalidOTP
	}
	return latest, nil
}

func (f *fakeOTPStore) Consume(_ context.Context, id uuid.UUID, at time.Time) error {
	for _, otp := range f.codes {
		if otp.ID == id {
			otp.ConsumedAt = &at
			return nil
		}
	}
	return ErrInvalidOTP
}

func (f *fakeOTPStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	var kept []*models.OTPCode
	var deleted int64
	for _, otp := range f.codes {
		if otp.ExpiresAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, otp)
	}
	f.codes = kept
	return deleted, nil
}

func newTestAuthService(users *fakeUserStore, otps *fakeOTPStore) *AuthService {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	otpConfig := &config.OTPConfig{TTL: 5 * time.Minute, Length: 6}
	return NewAuthService(users, otps, jwtManager, otpConfig, zap.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestAuthService(users, &fakeOTPStore{})

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		Password:  "password123",
		FirstName: "John",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "jdoe", resp.User.Username)

	// Stored password must be hashed.
	stored := users.byEmail["jdoe@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "password123", stored.Password)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jdoe@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(newFakeUserStore(), &fakeOTPStore{})

	req := &dto.RegisterRequest{Username: "jdoe", Email: "jdoe@example.com", Password: "password123"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(newFakeUserStore(), &fakeOTPStore{})

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "jdoe", Email: "jdoe@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jdoe@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	svc := newTestAuthService(newFakeUserStore(), &fakeOTPStore{})

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "jdoe", Email: "jdoe@example.com", Password: "password123",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestOTPFlow(t *testing.T) {
	otps := &fakeOTPStore{}
	svc := newTestAuthService(newFakeUserStore(), otps)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "jdoe", Email: "jdoe@example.com", Password: "password123",
	})
	require.NoError(t, err)

	issued, err := svc.RequestOTP(context.Background(), "jdoe@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ExpiresAt)
	require.Len(t, otps.codes, 1)
	assert.Len(t, otps.codes[0].Code, 6)

	resp, err := svc.VerifyOTP(context.Background(), "jdoe@example.com", otps.codes[0].Code)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	// A consumed code cannot be redeemed twice.
	_, err = svc.VerifyOTP(context.Background(), "jdoe@example.com", otps.codes[0].Code)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyOTPRejections(t *testing.T) {
	otps := &fakeOTPStore{}
	svc := newTestAuthService(newFakeUserStore(), otps)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "jdoe", Email: "jdoe@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.VerifyOTP(context.Background(), "jdoe@example.com", "000000")
	assert.ErrorIs(t, err, ErrInvalidOTP, "no code issued yet")

	_, err = svc.RequestOTP(context.Background(), "jdoe@example.com")
	require.NoError(t, err)

	_, err = svc.VerifyOTP(context.Background(), "jdoe@example.com", "wrong!")
	assert.ErrorIs(t, err, ErrInvalidOTP, "mismatched code")

	// Force the code past its expiry.
	otps.codes[0].ExpiresAt = time.Now().Add(-time.Minute)
	_, err = svc.VerifyOTP(context.Background(), "jdoe@example.com", otps.codes[0].Code)
	assert.ErrorIs(t, err, ErrInvalidOTP, "expired code")

	_, err = svc.VerifyOTP(context.Background(), "nobody@example.com", "123456")
	assert.ErrorIs(t, err, ErrInvalidOTP, "unknown email")
}

func TestRequestOTPUnknownUser(t *testing.T) {
	svc := newTestAuthService(newFakeUserStore(), &fakeOTPStore{})

	_, err := svc.RequestOTP(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPurgeExpiredOTPs(t *testing.T) {
	otps := &fakeOTPStore{}
	svc := newTestAuthService(newFakeUserStore(), otps)

	now := time.Now()
	otps.codes = []*models.OTPCode{
		{ID: uuid.New(), ExpiresAt: now.Add(-time.Hour)},
		{ID: uuid.New(), ExpiresAt: now.Add(time.Hour)},
	}

	require.NoError(t, svc.PurgeExpiredOTPs(context.Background()))
	assert.Len(t, otps.codes, 1)
}

package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bcardz/bcard-backend/pkg/config"
	"github.com/bcardz/bcard-backend/pkg/db/models"
	pkgerrors "github.com/bcardz/bcard-backend/pkg/errors"
	"github.com/bcardz/bcard-backend/pkg/pagination"
	"github.com/bcardz/bcard-backend/pkg/security"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.User{}))

	repo := NewRepository(gdb)
	svc, err := NewService(ServiceParams{
		Repo:           repo,
		JWTConfig:      config.JWTConfig{Secret: "test-secret", Issuer: "bcard"},
		PasswordConfig: testPasswordConfig(),
		LockoutConfig:  config.LockoutConfig{MaxFailedAttempts: 3, Duration: 24 * time.Hour},
	})
	require.NoError(t, err)
	return svc, repo
}

// low-cost argon parameters keep the suite fast
func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func registerRequest(email string) RegisterRequest {
	return RegisterRequest{
		Name:     NameRequest{First: "John", Last: "Doe"},
		Phone:    "0521234567",
		Email:    email,
		Password: "123456789",
		Image:    ImageRequest{Alt: "profile photo"},
		Address: AddressRequest{
			Country:     "Israel",
			City:        "Tel Aviv",
			Street:      "Herzl",
			HouseNumber: 10,
			Zip:         12345,
		},
	}
}

func TestRegisterHashesPasswordAndDefaults(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("john@example.com"))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, "john@example.com", created.Email)
	require.Equal(t, defaultUserImageURL, created.Image.URL)
	require.Equal(t, defaultUserState, created.Address.State)

	stored, err := repo.FindByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	require.NotEqual(t, "123456789", stored.PasswordHash)
	valid, err := security.VerifyPassword("123456789", stored.PasswordHash)
	require.NoError(t, err)
	require.True(t, valid)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("dup@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest("dup@example.com"))
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("  Mixed@Example.COM "))
	require.NoError(t, err)

	_, err = repo.FindByEmail(ctx, "mixed@example.com")
	require.NoError(t, err)
}

func TestLoginIssuesToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("login@example.com"))
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Email: "login@example.com", Password: "123456789"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
}

func TestLoginUnknownEmailRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "123456789"})
	requireCode(t, err, pkgerrors.CodeInvalidCredentials)
}

func TestLoginLockoutAfterThreeFailures(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("lock@example.com"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, LoginRequest{Email: "lock@example.com", Password: "wrongpass"})
		requireCode(t, err, pkgerrors.CodeInvalidCredentials)
	}

	stored, err := repo.FindByEmail(ctx, "lock@example.com")
	require.NoError(t, err)
	require.Equal(t, 3, stored.FailedAttempts)
	require.NotNil(t, stored.LockUntil)
	require.WithinDuration(t, time.Now().UTC().Add(24*time.Hour), *stored.LockUntil, time.Minute)

	// a correct password on the locked account is still rejected
	_, err = svc.Login(ctx, LoginRequest{Email: "lock@example.com", Password: "123456789"})
	requireCode(t, err, pkgerrors.CodeAccountLocked)
}

func TestLoginSuccessResetsCounters(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("reset@example.com"))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, LoginRequest{Email: "reset@example.com", Password: "wrongpass"})
		requireCode(t, err, pkgerrors.CodeInvalidCredentials)
	}

	_, err = svc.Login(ctx, LoginRequest{Email: "reset@example.com", Password: "123456789"})
	require.NoError(t, err)

	stored, err := repo.FindByEmail(ctx, "reset@example.com")
	require.NoError(t, err)
	require.Equal(t, 0, stored.FailedAttempts)
	require.Nil(t, stored.LockUntil)
}

func TestLoginExpiredLockAllowsRetry(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("expired@example.com"))
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.UpdateLoginCounters(ctx, created.ID, 3, &past))

	resp, err := svc.Login(ctx, LoginRequest{Email: "expired@example.com", Password: "123456789"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	stored, err := repo.FindByEmail(ctx, "expired@example.com")
	require.NoError(t, err)
	require.Equal(t, 0, stored.FailedAttempts)
	require.Nil(t, stored.LockUntil)
}

func TestListProjectsOutPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.Register(ctx, registerRequest(email))
		require.NoError(t, err)
	}

	dtos, err := svc.List(ctx, pagination.Params{Limit: 2, Offset: 0})
	require.NoError(t, err)
	require.Len(t, dtos, 2)

	rest, err := svc.List(ctx, pagination.Params{Limit: 10, Offset: 2})
	require.NoError(t, err)
	require.Len(t, rest, 1)
}

func TestGetMissingUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateReplacesProfile(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("update@example.com"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateUserRequest{
		Name:  NameRequest{First: "Jane", Last: "Roe"},
		Phone: "0539876543",
		Email: "updated@example.com",
		Image: ImageRequest{Alt: "new photo"},
		Address: AddressRequest{
			Country:     "Israel",
			City:        "Haifa",
			Street:      "Ben Gurion",
			HouseNumber: 50,
			Zip:         54321,
		},
	})
	require.NoError(t, err)
	require.Equal(t, "Jane", updated.Name.First)
	require.Equal(t, "updated@example.com", updated.Email)

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Haifa", stored.Address.City)
	// credentials survive a profile update
	valid, err := security.VerifyPassword("123456789", stored.PasswordHash)
	require.NoError(t, err)
	require.True(t, valid)
}

func TestUpdateRejectsTakenEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("first@example.com"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, registerRequest("second@example.com"))
	require.NoError(t, err)

	req := UpdateUserRequest{
		Name:  NameRequest{First: "John", Last: "Doe"},
		Phone: "0521234567",
		Email: "second@example.com",
		Image: ImageRequest{Alt: "profile photo"},
		Address: AddressRequest{
			Country:     "Israel",
			City:        "Tel Aviv",
			Street:      "Herzl",
			HouseNumber: 10,
			Zip:         12345,
		},
	}
	_, err = svc.Update(ctx, created.ID, req)
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestSetBusinessPatchesFlagOnly(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("flag@example.com"))
	require.NoError(t, err)

	dto, err := svc.SetBusiness(ctx, created.ID, true)
	require.NoError(t, err)
	require.True(t, dto.IsBusiness)

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, stored.IsBusiness)
	require.Equal(t, "flag@example.com", stored.Email)

	_, err = svc.SetBusiness(ctx, uuid.New(), true)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteRemovesUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerRequest("gone@example.com"))
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, deleted.ID)

	_, err = svc.Get(ctx, created.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.Delete(ctx, created.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	require.Equal(t, code, typed.Code())
}

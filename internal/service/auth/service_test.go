package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mukwano/agrotrack/internal/domain/errs"
	"github.com/mukwano/agrotrack/internal/domain/models"
	"github.com/mukwano/agrotrack/internal/service/auth"
)

type fakeUserStore struct {
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]models.User)}
}

func (f *fakeUserStore) Insert(_ context.Context, user models.User) (models.User, error) {
	user.ID = primitive.NewObjectID()
	f.users[user.Username] = user
	return user, nil
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (models.User, bool, error) {
	user, ok := f.users[username]
	return user, ok, nil
}

func newTestService() (*auth.Service, *fakeUserStore) {
	store := newFakeUserStore()
	return auth.NewService(store, "test-secret", time.Hour, nil), store
}

func managerSignup() auth.SignupInput {
	return auth.SignupInput{
		FullName: "Ssebagala Robert",
		Username: "ssebagala",
		Phone:    "+256772000111",
		Branch:   "Maganjo",
		Role:     "Manager",
		Password: "s3cret-pw",
	}
}

func TestSignupAndLogin_RoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, managerSignup())
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, created.Role)
	require.NotNil(t, created.Branch)
	assert.Equal(t, models.BranchMaganjo, *created.Branch)
	assert.NotEqual(t, "s3cret-pw", created.PasswordHash, "password must be hashed")

	token, user, err := svc.Login(ctx, "ssebagala", "s3cret-pw")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	caller, err := auth.VerifyToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, created.ID.Hex(), caller.ID)
	assert.Equal(t, models.RoleManager, caller.Role)
	require.NotNil(t, caller.Branch)
	assert.Equal(t, models.BranchMaganjo, *caller.Branch)
}

func TestSignup_DirectorHasNoBranch(t *testing.T) {
	svc, _ := newTestService()

	in := managerSignup()
	in.Username = "nansamba"
	in.Role = "Director"
	in.Branch = "Maganjo"

	created, err := svc.Signup(context.Background(), in)
	require.NoError(t, err)
	assert.Nil(t, created.Branch, "directors are stored without a branch")
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*auth.SignupInput)
	}{
		{"unknown role", func(in *auth.SignupInput) { in.Role = "Accountant" }},
		{"short name", func(in *auth.SignupInput) { in.FullName = "A" }},
		{"bad phone", func(in *auth.SignupInput) { in.Phone = "12345" }},
		{"short password", func(in *auth.SignupInput) { in.Password = "abc" }},
		{"manager without branch", func(in *auth.SignupInput) { in.Branch = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := managerSignup()
			tc.mutate(&in)
			_, err := svc.Signup(ctx, in)
			assert.ErrorIs(t, err, errs.ErrInvalidInput)
		})
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, managerSignup())
	require.NoError(t, err)

	_, err = svc.Signup(ctx, managerSignup())
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, managerSignup())
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ssebagala", "wrong-pw")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, _, err = svc.Login(ctx, "nobody", "s3cret-pw")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestVerifyToken_RejectsWrongSecret(t *testing.T) {
	user := models.User{ID: primitive.NewObjectID(), Username: "okello", Role: models.RoleSalesAgent}

	token, err := auth.IssueToken("secret-a", user, time.Hour)
	require.NoError(t, err)

	_, err = auth.VerifyToken("secret-b", token)
	assert.Error(t, err)
}

func TestVerifyToken_RejectsExpired(t *testing.T) {
	user := models.User{ID: primitive.NewObjectID(), Username: "okello", Role: models.RoleSalesAgent}

	token, err := auth.IssueToken("secret", user, -time.Minute)
	require.NoError(t, err)

	_, err = auth.VerifyToken("secret", token)
	assert.Error(t, err)
}

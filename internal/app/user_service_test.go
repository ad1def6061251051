package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mathsolve/internal/model"
	"mathsolve/internal/pkg/jwtutil"
)

type fakeUserRepo struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
	deleted []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*model.User{}, byEmail: map[string]*model.User{}}
}

func (f *fakeUserRepo) Create(user *model.User) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("u-%d", len(f.byID)+1)
	}
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByID(id string) (*model.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*model.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) Update(user *model.User) error {
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) Delete(id string) error {
	if user, ok := f.byID[id]; ok {
		delete(f.byEmail, user.Email)
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

const testJWTSecret = "unit-test-secret"

func newUserService() (*UserService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewUserService(repo, testJWTSecret, time.Hour), repo
}

func TestRegisterAndLogin(t *testing.T) {
	service, _ := newUserService()

	registered, err := service.Register(RegisterInput{
		Email:    "Ada@Example.COM",
		Name:     "Ada",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", registered.User.Email, "email is stored lowercased")
	assert.NotEmpty(t, registered.Token)
	assert.NotEqual(t, "correct horse", registered.User.PasswordHash)

	claims, err := jwtutil.ParseToken(testJWTSecret, registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)

	logged, err := service.Login(LoginInput{Email: "ada@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, logged.User.ID)
	assert.NotEmpty(t, logged.Token)
}

func TestRegisterValidation(t *testing.T) {
	service, _ := newUserService()

	cases := []RegisterInput{
		{Email: "", Name: "Ada", Password: "longenough"},
		{Email: "a@b.c", Name: "", Password: "longenough"},
		{Email: "a@b.c", Name: "Ada", Password: ""},
		{Email: "a@b.c", Name: "Ada", Password: "short"},
	}
	for _, input := range cases {
		_, err := service.Register(input)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _ := newUserService()

	_, err := service.Register(RegisterInput{Email: "a@b.c", Name: "Ada", Password: "longenough"})
	require.NoError(t, err)

	_, err = service.Register(RegisterInput{Email: "A@B.C", Name: "Other", Password: "longenough"})
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestLoginWrongPassword(t *testing.T) {
	service, _ := newUserService()

	_, err := service.Register(RegisterInput{Email: "a@b.c", Name: "Ada", Password: "longenough"})
	require.NoError(t, err)

	_, err = service.Login(LoginInput{Email: "a@b.c", Password: "wrong password"})
	require.ErrorIs(t, err, ErrInvalidCredential)

	// Unknown email reports the same error as a wrong password.
	_, err = service.Login(LoginInput{Email: "nobody@b.c", Password: "longenough"})
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestUpdateUser(t *testing.T) {
	service, _ := newUserService()

	registered, err := service.Register(RegisterInput{Email: "a@b.c", Name: "Ada", Password: "longenough"})
	require.NoError(t, err)

	updated, err := service.UpdateUser(UpdateUserInput{ID: registered.User.ID, Name: "Ada L."})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Name)
	assert.Equal(t, "a@b.c", updated.Email, "email untouched when not provided")

	updated, err = service.UpdateUser(UpdateUserInput{ID: registered.User.ID, Email: "New@B.C"})
	require.NoError(t, err)
	assert.Equal(t, "new@b.c", updated.Email)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	service, _ := newUserService()

	first, err := service.Register(RegisterInput{Email: "a@b.c", Name: "Ada", Password: "longenough"})
	require.NoError(t, err)
	_, err = service.Register(RegisterInput{Email: "taken@b.c", Name: "Eve", Password: "longenough"})
	require.NoError(t, err)

	_, err = service.UpdateUser(UpdateUserInput{ID: first.User.ID, Email: "taken@b.c"})
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestUpdateUserNotFound(t *testing.T) {
	service, _ := newUserService()
	_, err := service.UpdateUser(UpdateUserInput{ID: "missing", Name: "X"})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	service, repo := newUserService()

	registered, err := service.Register(RegisterInput{Email: "a@b.c", Name: "Ada", Password: "longenough"})
	require.NoError(t, err)

	require.NoError(t, service.DeleteUser(registered.User.ID))
	assert.Equal(t, []string{registered.User.ID}, repo.deleted)

	err = service.DeleteUser(registered.User.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
}

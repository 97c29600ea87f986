package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harlequingg/tasktracker/internal/data"
	"github.com/harlequingg/tasktracker/internal/testutil"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T) (*AuthService, *testutil.Store) {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	store := testutil.NewStore()
	return NewAuthService(store, &BcryptHasher{Cost: bcrypt.MinCost}, logger), store
}

func ana() RegisterInput {
	return RegisterInput{Name: "Ana", Username: "ana1", Email: "ana@x.com", Password: "secret1"}
}

func TestRegister(t *testing.T) {
	auth, store := newAuth(t)

	u, err := auth.Register(context.Background(), ana())
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, "ana1", u.Username)
	assert.Equal(t, "ana@x.com", u.Email)

	stored, err := store.GetUserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, []byte("secret1"), stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword(stored.PasswordHash, []byte("secret1")))
}

func TestRegisterMissingFields(t *testing.T) {
	auth, _ := newAuth(t)

	in := ana()
	in.Email = ""
	_, err := auth.Register(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "All fields are required.", e.Message)
	assert.Contains(t, e.Fields, "email")
}

func TestRegisterPasswordTooLong(t *testing.T) {
	auth, _ := newAuth(t)

	in := ana()
	in.Password = strings.Repeat("p", 73)
	_, err := auth.Register(context.Background(), in)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "Invalid registration details.", err.Error())
}

func TestRegisterAcceptsLongFields(t *testing.T) {
	auth, _ := newAuth(t)

	in := ana()
	in.Name = strings.Repeat("n", 300)
	in.Username = strings.Repeat("u", 300)
	in.Email = strings.Repeat("e", 300) + "@x.com"
	u, err := auth.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in.Username, u.Username)
}

func TestRegisterConflicts(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*RegisterInput)
		field string
	}{
		{
			name:  "same username",
			edit:  func(in *RegisterInput) { in.Email = "other@x.com" },
			field: "username",
		},
		{
			name:  "same email",
			edit:  func(in *RegisterInput) { in.Username = "other" },
			field: "email",
		},
		{
			name:  "both, username wins",
			edit:  func(in *RegisterInput) {},
			field: "username",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, _ := newAuth(t)
			_, err := auth.Register(context.Background(), ana())
			require.NoError(t, err)

			in := ana()
			tt.edit(&in)
			_, err = auth.Register(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, KindConflict, KindOf(err))

			var e *Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.field, e.Field)
			assert.Equal(t, tt.field+" already exists.", e.Message)
		})
	}
}

// conflictOnInsert reports no existing users but refuses the insert, the way
// a concurrent registration looks to the service.
type conflictOnInsert struct {
	*testutil.Store
	err error
}

func (c conflictOnInsert) InsertUser(context.Context, *data.User) error {
	return c.err
}

func TestRegisterInsertRace(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	store := conflictOnInsert{Store: testutil.NewStore(), err: data.ErrDuplicateEmail}
	auth := NewAuthService(store, &BcryptHasher{Cost: bcrypt.MinCost}, logger)

	_, err := auth.Register(context.Background(), ana())
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, KindConflict, e.Kind)
	assert.Equal(t, "email", e.Field)
}

func TestRegisterStoreFailure(t *testing.T) {
	auth, store := newAuth(t)
	boom := errors.New("connection refused")
	store.FailWith(boom)

	_, err := auth.Register(context.Background(), ana())
	assert.Equal(t, KindInternal, KindOf(err))
	assert.ErrorIs(t, err, boom)
}

func TestLogin(t *testing.T) {
	auth, _ := newAuth(t)
	registered, err := auth.Register(context.Background(), ana())
	require.NoError(t, err)

	for _, identifier := range []string{"ana1", "ana@x.com"} {
		u, err := auth.Login(context.Background(), identifier, "secret1")
		require.NoError(t, err, identifier)
		assert.Equal(t, registered, u)
	}
}

func TestLoginDoesNotRevealAccounts(t *testing.T) {
	auth, _ := newAuth(t)
	_, err := auth.Register(context.Background(), ana())
	require.NoError(t, err)

	_, wrongPassword := auth.Login(context.Background(), "ana1", "nope")
	_, unknownUser := auth.Login(context.Background(), "bob", "secret1")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.Equal(t, KindAuthentication, KindOf(wrongPassword))
	assert.Equal(t, KindAuthentication, KindOf(unknownUser))
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	assert.Equal(t, "Invalid credentials.", unknownUser.Error())
}

func TestLoginMissingFields(t *testing.T) {
	auth, _ := newAuth(t)

	_, err := auth.Login(context.Background(), "", "secret1")
	assert.Equal(t, KindValidation, KindOf(err))
	_, err = auth.Login(context.Background(), "ana1", "")
	assert.Equal(t, KindValidation, KindOf(err))
}

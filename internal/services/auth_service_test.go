package services

import (
	"strings"
	"sync"
	"testing"
	"time"

	"shop_backend/internal/appErrors"
	"shop_backend/internal/auth"
	"shop_backend/internal/email"
	"shop_backend/internal/models"
	"shop_backend/internal/repositories"
	"shop_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVerifyBaseURL = "http://localhost:3000/verify?token="

// fakeUserRepo is an in-memory UserRepository keyed by email.
type fakeUserRepo struct {
	mu    sync.Mutex
	seq   uint
	users map[string]*models.User

	// createErr, when set, is returned by Create regardless of state.
	// Used to simulate the unique-index rejection of a concurrent insert.
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) FindByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.users[user.Email]; ok {
		return repositories.ErrUserAlreadyExists
	}
	r.seq++
	user.ID = r.seq
	copied := *user
	r.users[user.Email] = &copied
	return nil
}

func (r *fakeUserRepo) UpdatePasswordByEmail(email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) VerifyUser(userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.IsVerified = true
			return nil
		}
	}
	return repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindAll(limit, offset int) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []models.User
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *fakeUserRepo) CountAll() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) delete(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, email)
}

// fakeMailer records verification sends on a channel so tests can wait
// for the fire-and-forget dispatch goroutine.
type fakeMailer struct {
	sent chan email.VerificationData
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan email.VerificationData, 4)}
}

func (f *fakeMailer) Send(*email.Email) error { return nil }

func (f *fakeMailer) SendVerification(to string, data email.VerificationData) error {
	f.sent <- data
	return nil
}

func waitForMail(t *testing.T, f *fakeMailer) email.VerificationData {
	t.Helper()
	select {
	case data := <-f.sent:
		return data
	case <-time.After(2 * time.Second):
		t.Fatal("verification email was not dispatched")
		return email.VerificationData{}
	}
}

func newTestAuthService(t *testing.T) (AuthService, *fakeUserRepo, *fakeMailer, *auth.TokenService) {
	t.Helper()
	repo := newFakeUserRepo()
	mailer := newFakeMailer()
	tokens := auth.NewTokenService("test-secret")
	svc := NewAuthService(repo, tokens, mailer, testVerifyBaseURL)
	return svc, repo, mailer, tokens
}

func registerTestUser(t *testing.T, svc AuthService, mailer *fakeMailer, userEmail, password string) {
	t.Helper()
	err := svc.Register(&dto.RegisterRequest{
		Email:     userEmail,
		Password:  password,
		FirstName: "A",
		LastName:  "B",
		Gender:    "M",
	})
	require.NoError(t, err)
	waitForMail(t, mailer)
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	svc, repo, mailer, tokens := newTestAuthService(t)

	err := svc.Register(&dto.RegisterRequest{
		Email:     "a@x.com",
		Password:  "pw1-secret",
		FirstName: "A",
		LastName:  "B",
		Gender:    "M",
	})
	require.NoError(t, err)

	user, err := repo.FindByEmail("a@x.com")
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
	assert.Equal(t, models.UserRoleCustomer, user.Role)
	assert.NotEqual(t, "pw1-secret", user.PasswordHash)
	assert.True(t, auth.CheckPasswordHash("pw1-secret", user.PasswordHash))

	// The verification mail carries a 1h token with the email claim.
	data := waitForMail(t, mailer)
	assert.Equal(t, "a@x.com", data.Email)
	assert.Equal(t, "A B", data.Fullname)
	require.True(t, strings.HasPrefix(data.VerifyURL, testVerifyBaseURL))

	claims, err := tokens.Parse(strings.TrimPrefix(data.VerifyURL, testVerifyBaseURL))
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _, mailer, _ := newTestAuthService(t)
	registerTestUser(t, svc, mailer, "a@x.com", "pw1-secret")

	err := svc.Register(&dto.RegisterRequest{
		Email:     "a@x.com",
		Password:  "pw2-secret",
		FirstName: "C",
		LastName:  "D",
		Gender:    "F",
	})
	assert.ErrorIs(t, err, appErrors.ErrAlreadyRegistered)
}

func TestRegister_ConcurrentInsertLosesRace(t *testing.T) {
	t.Parallel()

	// The existence check passed but the store's unique index rejected
	// the insert; that failure must surface as "already registered".
	repo := newFakeUserRepo()
	repo.createErr = repositories.ErrUserAlreadyExists
	svc := NewAuthService(repo, auth.NewTokenService("test-secret"), newFakeMailer(), testVerifyBaseURL)

	err := svc.Register(&dto.RegisterRequest{
		Email:     "racer@x.com",
		Password:  "pw-secret",
		FirstName: "R",
		LastName:  "R",
		Gender:    "F",
	})
	assert.ErrorIs(t, err, appErrors.ErrAlreadyRegistered)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	svc, _, mailer, tokens := newTestAuthService(t)
	registerTestUser(t, svc, mailer, "a@x.com", "pw1-secret")

	response, err := svc.Login(&dto.LoginRequest{Email: "a@x.com", Password: "pw1-secret"})
	require.NoError(t, err)
	assert.True(t, response.Success)
	assert.Equal(t, "a@x.com", response.Result.Email)
	assert.Equal(t, models.UserRoleCustomer, response.Result.Role)

	claims, err := tokens.Parse(response.Token)
	require.NoError(t, err)
	assert.Equal(t, response.Result.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "customer", claims.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, _, mailer, _ := newTestAuthService(t)
	registerTestUser(t, svc, mailer, "a@x.com", "pw1-secret")

	// Unknown email and wrong password must be indistinguishable.
	_, errUnknown := svc.Login(&dto.LoginRequest{Email: "nobody@x.com", Password: "pw1-secret"})
	_, errWrongPw := svc.Login(&dto.LoginRequest{Email: "a@x.com", Password: "wrong"})

	assert.ErrorIs(t, errUnknown, appErrors.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, appErrors.ErrInvalidCredentials)
	assert.Equal(t, errUnknown, errWrongPw)
}

func TestForgotPassword(t *testing.T) {
	t.Parallel()

	svc, _, mailer, _ := newTestAuthService(t)
	registerTestUser(t, svc, mailer, "a@x.com", "old-secret")

	err := svc.ForgotPassword(&dto.ForgotPasswordRequest{Email: "a@x.com", Password: "new-secret"})
	require.NoError(t, err)

	_, err = svc.Login(&dto.LoginRequest{Email: "a@x.com", Password: "old-secret"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Login(&dto.LoginRequest{Email: "a@x.com", Password: "new-secret"})
	assert.NoError(t, err)
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestAuthService(t)

	err := svc.ForgotPassword(&dto.ForgotPasswordRequest{Email: "nobody@x.com", Password: "new-secret"})
	assert.ErrorIs(t, err, appErrors.ErrUserNotFound)
}

func TestKeepLogin_Success(t *testing.T) {
	t.Parallel()

	svc, _, mailer, tokens := newTestAuthService(t)
	registerTestUser(t, svc, mailer, "a@x.com", "pw1-secret")

	login, err := svc.Login(&dto.LoginRequest{Email: "a@x.com", Password: "pw1-secret"})
	require.NoError(t, err)

	// Raw token and "Bearer "-prefixed header are both accepted.
	for _, header := range []string{login.Token, "Bearer " + login.Token} {
		response, err := svc.KeepLogin(header)
		require.NoError(t, err)
		assert.True(t, response.Success)
		assert.Equal(t, login.Result, response.Result)

		claims, err := tokens.Parse(response.Token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", claims.Email)
	}
}

func TestKeepLogin_PicksUpFreshUserState(t *testing.T) {
	t.Parallel()

	svc, repo, mailer, _ := newTestAuthService(t)
	registerTestUser(t, svc, mailer, "a@x.com", "pw1-secret")

	login, err := svc.Login(&dto.LoginRequest{Email: "a@x.com", Password: "pw1-secret"})
	require.NoError(t, err)

	// Promote the user after token issuance; the refresh must reflect it.
	repo.mu.Lock()
	repo.users["a@x.com"].Role = models.UserRoleAdmin
	repo.mu.Unlock()

	response, err := svc.KeepLogin(login.Token)
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleAdmin, response.Result.Role)
}

func TestKeepLogin_Unauthorized(t *testing.T) {
	t.Parallel()

	svc, repo, mailer, tokens := newTestAuthService(t)
	registerTestUser(t, svc, mailer, "a@x.com", "pw1-secret")

	// Missing header.
	_, err := svc.KeepLogin("")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	// Malformed token.
	_, err = svc.KeepLogin("not.a.jwt")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	// Expired token.
	expired, issueErr := tokens.Issue(&auth.UserClaims{Email: "a@x.com"}, -1*time.Second)
	require.NoError(t, issueErr)
	_, err = svc.KeepLogin(expired)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	// Valid token but the user vanished after issuance.
	login, loginErr := svc.Login(&dto.LoginRequest{Email: "a@x.com", Password: "pw1-secret"})
	require.NoError(t, loginErr)
	repo.delete("a@x.com")
	_, err = svc.KeepLogin(login.Token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestVerifyEmail(t *testing.T) {
	t.Parallel()

	svc, repo, mailer, _ := newTestAuthService(t)

	err := svc.Register(&dto.RegisterRequest{
		Email:     "a@x.com",
		Password:  "pw1-secret",
		FirstName: "A",
		LastName:  "B",
		Gender:    "M",
	})
	require.NoError(t, err)

	data := waitForMail(t, mailer)
	token := strings.TrimPrefix(data.VerifyURL, testVerifyBaseURL)

	require.NoError(t, svc.VerifyEmail(token))

	user, err := repo.FindByEmail("a@x.com")
	require.NoError(t, err)
	assert.True(t, user.IsVerified)

	// A tampered token is rejected.
	forged, err := auth.NewTokenService("other-secret").Issue(&auth.UserClaims{Email: "a@x.com"}, time.Hour)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.VerifyEmail(forged), appErrors.ErrInvalidToken)
}

func TestSendVerificationMail(t *testing.T) {
	t.Parallel()

	svc, _, mailer, _ := newTestAuthService(t)

	err := svc.SendVerificationMail(&dto.SendMailRequest{Email: "a@x.com", Fullname: "A B"})
	require.NoError(t, err)

	// Re-send renders the template with an empty verify URL.
	data := waitForMail(t, mailer)
	assert.Equal(t, "a@x.com", data.Email)
	assert.Equal(t, "A B", data.Fullname)
	assert.Empty(t, data.VerifyURL)
}

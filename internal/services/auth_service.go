package services

import (
	"strings"
	"time"

	"shop_backend/internal/appErrors"
	"shop_backend/internal/auth"
	"shop_backend/internal/email"
	"shop_backend/internal/logger"
	"shop_backend/internal/models"
	"shop_backend/internal/repositories"
	"shop_backend/internal/services/dto"
)

const (
	// Session tokens are deliberately short-lived; clients refresh them
	// through keep-login.
	SessionTokenTTL = 5 * time.Minute
	// Verification links stay valid for an hour.
	VerifyTokenTTL = time.Hour
)

type AuthService interface {
	Register(req *dto.RegisterRequest) error
	Login(req *dto.LoginRequest) (*dto.AuthResponse, error)
	ForgotPassword(req *dto.ForgotPasswordRequest) error
	KeepLogin(authorization string) (*dto.AuthResponse, error)
	VerifyEmail(token string) error
	SendVerificationMail(req *dto.SendMailRequest) error
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	tokens        *auth.TokenService
	mailer        email.Sender
	verifyBaseURL string
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokens *auth.TokenService,
	mailer email.Sender,
	verifyBaseURL string,
) AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		tokens:        tokens,
		mailer:        mailer,
		verifyBaseURL: verifyBaseURL,
	}
}

// Register creates an unverified user and dispatches the verification
// email. The email dispatch is fire-and-forget: a mail failure does not
// roll back the created user.
func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) error {
	// Advisory check for a friendly error; the unique index on email is
	// the real guard against concurrent registrations.
	_, err := s.userRepo.FindByEmail(req.Email)
	if err == nil {
		return appErrors.ErrAlreadyRegistered
	}
	if !appErrors.Is(err, repositories.ErrUserNotFound) {
		return appErrors.InternalError(err)
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return appErrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Gender:       req.Gender,
		Role:         models.UserRoleCustomer,
		IsVerified:   false,
	}

	if err := s.userRepo.Create(user); err != nil {
		if appErrors.Is(err, repositories.ErrUserAlreadyExists) {
			return appErrors.ErrAlreadyRegistered
		}
		return appErrors.InternalError(err)
	}

	verifyToken, err := s.tokens.Issue(&auth.UserClaims{Email: user.Email}, VerifyTokenTTL)
	if err != nil {
		return appErrors.InternalError(err)
	}

	s.dispatchVerificationMail(user.Email, email.VerificationData{
		Email:     user.Email,
		Fullname:  user.FullName(),
		VerifyURL: s.verifyBaseURL + verifyToken,
	})

	return nil
}

// Login verifies the credentials and issues a session token over the
// user projection. Unknown email and wrong password return the same
// error kind so the response does not leak which one occurred.
func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, appErrors.ErrInvalidCredentials
	}

	return s.buildAuthResponse(user)
}

// ForgotPassword replaces the stored hash for the given email. There is
// no old-password or token check here; this mirrors the intended reset
// flow where possession of the mailbox is the proof.
func (s *AuthServiceImpl) ForgotPassword(req *dto.ForgotPasswordRequest) error {
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return appErrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePasswordByEmail(req.Email, hashedPassword); err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return appErrors.InternalError(err)
	}

	return nil
}

// KeepLogin refreshes a session. The user is refetched by the email in
// the claims so role or verification changes since issuance are picked
// up, and a deleted user cannot refresh even with a valid token.
func (s *AuthServiceImpl) KeepLogin(authorization string) (*dto.AuthResponse, error) {
	tokenStr := extractToken(authorization)
	if tokenStr == "" {
		return nil, appErrors.ErrUnauthorized
	}

	claims, err := s.tokens.Parse(tokenStr)
	if err != nil {
		return nil, appErrors.ErrUnauthorized
	}

	user, err := s.userRepo.FindByEmail(claims.Email)
	if err != nil {
		return nil, appErrors.ErrUnauthorized
	}

	return s.buildAuthResponse(user)
}

// VerifyEmail marks the user behind a verification token as verified.
func (s *AuthServiceImpl) VerifyEmail(token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return appErrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByEmail(claims.Email)
	if err != nil {
		return appErrors.ErrInvalidToken
	}

	if err := s.userRepo.VerifyUser(user.ID); err != nil {
		return appErrors.InternalError(err)
	}

	return nil
}

// SendVerificationMail re-sends the verification template without
// creating a user or a token; the verify URL is left empty.
func (s *AuthServiceImpl) SendVerificationMail(req *dto.SendMailRequest) error {
	s.dispatchVerificationMail(req.Email, email.VerificationData{
		Email:    req.Email,
		Fullname: req.Fullname,
	})
	return nil
}

// --- Helpers ---

func (s *AuthServiceImpl) buildAuthResponse(user *models.User) (*dto.AuthResponse, error) {
	result := dto.NewUserDTO(user)

	token, err := s.tokens.Issue(&auth.UserClaims{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Gender:    user.Gender,
		Role:      string(user.Role),
	}, SessionTokenTTL)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	return &dto.AuthResponse{
		Success: true,
		Result:  result,
		Token:   token,
	}, nil
}

// dispatchVerificationMail sends in the background; the outcome is
// logged and never fails the request.
func (s *AuthServiceImpl) dispatchVerificationMail(to string, data email.VerificationData) {
	if s.mailer == nil {
		return
	}

	go func() {
		if err := s.mailer.SendVerification(to, data); err != nil {
			logger.Error("Failed to send verification email", "to", to, "error", err)
		}
	}()
}

// extractToken accepts both a raw token and a "Bearer <token>" header.
func extractToken(authorization string) string {
	authorization = strings.TrimSpace(authorization)
	if strings.HasPrefix(authorization, "Bearer ") {
		return strings.TrimPrefix(authorization, "Bearer ")
	}
	return authorization
}

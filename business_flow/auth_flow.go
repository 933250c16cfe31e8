package businessflow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/taskdesk/taskdesk/app/dto"
	"github.com/taskdesk/taskdesk/app/services"
	"github.com/taskdesk/taskdesk/models"
	"github.com/taskdesk/taskdesk/repository"
	"github.com/taskdesk/taskdesk/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthFlow defines operations for signup, login and logout
type AuthFlow interface {
	Signup(ctx context.Context, req *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	Logout(ctx context.Context, req *dto.LogoutRequest, userID string) (*dto.LogoutResponse, error)
}

// AuthFlowImpl implements AuthFlow
type AuthFlowImpl struct {
	db           *gorm.DB
	userRepo     repository.UserRepository
	sessionRepo  repository.UserSessionRepository
	deptRepo     repository.DepartmentRepository
	idGen        services.IDGenerator
	tokenService services.TokenService
	rc           *redis.Client
}

func NewAuthFlow(
	db *gorm.DB,
	userRepo repository.UserRepository,
	sessionRepo repository.UserSessionRepository,
	deptRepo repository.DepartmentRepository,
	idGen services.IDGenerator,
	tokenService services.TokenService,
	rc *redis.Client,
) AuthFlow {
	return &AuthFlowImpl{
		db:           db,
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		deptRepo:     deptRepo,
		idGen:        idGen,
		tokenService: tokenService,
		rc:           rc,
	}
}

func (f *AuthFlowImpl) Signup(ctx context.Context, req *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Reject duplicate emails early; the unique index is the final arbiter
	existing, err := f.userRepo.ByEmail(ctx, email)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to look up user", err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	// Validate department
	dept, err := f.deptRepo.ByID(ctx, req.DepartmentID)
	if err != nil {
		return nil, NewBusinessError("DEPARTMENT_LOOKUP_FAILED", "Failed to look up department", err)
	}
	if dept == nil {
		return nil, ErrDepartmentNotFound
	}
	if !utils.IsTrue(dept.IsActive) {
		return nil, ErrDepartmentInactive
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewBusinessError("PASSWORD_HASH_FAILED", "Failed to hash password", err)
	}

	// Allocate identifiers before the transaction; a rollback merely burns
	// the sequence numbers
	userID, err := f.idGen.Generate(ctx, models.PrefixUser)
	if err != nil {
		return nil, NewBusinessError("ID_ALLOCATION_FAILED", "Failed to allocate user ID", err)
	}
	sessionID, err := f.idGen.Generate(ctx, models.PrefixSession)
	if err != nil {
		return nil, NewBusinessError("ID_ALLOCATION_FAILED", "Failed to allocate session ID", err)
	}

	user := models.User{
		ID:           userID,
		DepartmentID: dept.ID,
		Email:        email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         models.UserRoleMember,
		Phone:        req.Phone,
	}

	accessToken, refreshToken, err := f.tokenService.GenerateTokens(userID, sessionID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	session := models.UserSession{
		ID:               sessionID,
		UserID:           userID,
		RefreshTokenHash: hashToken(refreshToken),
		IPAddress:        &metadata.IPAddress,
		UserAgent:        &metadata.UserAgent,
		ExpiresAt:        utils.UTCNowAdd(utils.SessionTimeout),
	}

	// User and session commit together
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.userRepo.Save(txCtx, &user); err != nil {
			return err
		}
		return f.sessionRepo.Save(txCtx, &session)
	})
	if err != nil {
		return nil, NewBusinessError("SIGNUP_FAILED", "Failed to create account", err)
	}

	f.cacheSession(ctx, &session)

	return &dto.SignupResponse{
		Message: "Account created successfully",
		User:    ToUserDTO(user),
		Session: ToSessionDTO(session, accessToken, refreshToken),
	}, nil
}

func (f *AuthFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := f.userRepo.ByEmail(ctx, email)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to look up user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !utils.IsTrue(user.IsActive) {
		return nil, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}

	sessionID, err := f.idGen.Generate(ctx, models.PrefixSession)
	if err != nil {
		return nil, NewBusinessError("ID_ALLOCATION_FAILED", "Failed to allocate session ID", err)
	}

	accessToken, refreshToken, err := f.tokenService.GenerateTokens(user.ID, sessionID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	session := models.UserSession{
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: hashToken(refreshToken),
		IPAddress:        &metadata.IPAddress,
		UserAgent:        &metadata.UserAgent,
		ExpiresAt:        utils.UTCNowAdd(utils.SessionTimeout),
	}

	if err := f.sessionRepo.Save(ctx, &session); err != nil {
		return nil, NewBusinessError("SESSION_CREATE_FAILED", "Failed to create session", err)
	}

	if err := f.userRepo.UpdateLastLogin(ctx, user.ID, utils.UTCNow()); err != nil {
		// Best-effort; login already succeeded
		_ = err
	}

	f.cacheSession(ctx, &session)

	return &dto.LoginResponse{
		Message: "Login successful",
		User:    ToUserDTO(*user),
		Session: ToSessionDTO(session, accessToken, refreshToken),
	}, nil
}

func (f *AuthFlowImpl) Logout(ctx context.Context, req *dto.LogoutRequest, userID string) (*dto.LogoutResponse, error) {
	session, err := f.sessionRepo.ByID(ctx, req.SessionID)
	if err != nil {
		return nil, NewBusinessError("SESSION_LOOKUP_FAILED", "Failed to look up session", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.UserID != userID {
		return nil, NewBusinessError("FORBIDDEN", "You can only revoke your own sessions", nil)
	}

	if err := f.sessionRepo.Revoke(ctx, session.ID); err != nil {
		return nil, NewBusinessError("SESSION_REVOKE_FAILED", "Failed to revoke session", err)
	}

	if f.rc != nil {
		_ = f.rc.Del(ctx, sessionCacheKey(session.ID)).Err()
	}

	return &dto.LogoutResponse{Message: "Logged out successfully"}, nil
}

// cacheSession stores the session in Redis best-effort; a cache miss only
// costs a database read on the auth path
func (f *AuthFlowImpl) cacheSession(ctx context.Context, session *models.UserSession) {
	if f.rc == nil {
		return
	}
	bs, err := json.Marshal(session)
	if err != nil {
		return
	}
	_ = f.rc.Set(ctx, sessionCacheKey(session.ID), bs, time.Until(session.ExpiresAt)).Err()
}

func sessionCacheKey(sessionID string) string {
	return fmt.Sprintf("taskdesk:session:%s", sessionID)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

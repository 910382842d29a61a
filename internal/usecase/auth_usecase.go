package usecase

import (
	"context"
	"crypto/subtle"

	"patient-study-api/config"
	"patient-study-api/internal/delivery/dto"
	"patient-study-api/internal/domain/entity"
	"patient-study-api/internal/service"
	"patient-study-api/pkg/jwt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthUsecase interface {
	IssueToken(ctx context.Context, req *dto.TokenRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, username, accessTokenID, refreshToken string) error
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	account      config.AuthConfig
	jwtService   *jwt.JWTService
	tokenStore   service.TokenStore
	auditService service.AuditService
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	account config.AuthConfig,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		account:      account,
		jwtService:   jwtService,
		tokenStore:   tokenStore,
		auditService: auditService,
	}
}

// IssueToken exchanges the API account credentials for an access/refresh token pair
func (u *authUsecase) IssueToken(ctx context.Context, req *dto.TokenRequest) (*dto.TokenResponse, error) {
	if u.account.Username == "" || u.account.PasswordHash == "" {
		u.log.Warn("Token requested but no API account is configured")
		return nil, ErrInvalidCredentials
	}

	usernameMatch := subtle.ConstantTimeCompare([]byte(req.Username), []byte(u.account.Username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(u.account.PasswordHash), []byte(req.Password))
	if !usernameMatch || passwordErr != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := u.issue(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, u.db.WithContext(ctx), req.Username, entity.AuditActionTokenIssue, "token", req.Username, nil); err != nil {
		u.log.Warnf("Failed to audit token issue: %+v", err)
	}

	return tokens, nil
}

// RefreshToken rotates a refresh token: the presented one is revoked and a new pair issued
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenStore.Exists(ctx, jwt.RefreshToken, claims.Username, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	if err := u.tokenStore.Revoke(ctx, jwt.RefreshToken, claims.Username, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	return u.issue(ctx, claims.Username)
}

// Logout revokes the access token of the request and, when given, the refresh token
func (u *authUsecase) Logout(ctx context.Context, username, accessTokenID, refreshToken string) error {
	if err := u.tokenStore.Revoke(ctx, jwt.AccessToken, username, accessTokenID); err != nil {
		u.log.Warnf("Failed to delete access token: %+v", err)
		return err
	}

	if refreshToken != "" {
		claims, err := u.jwtService.ValidateToken(refreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.Username == username {
			if err := u.tokenStore.Revoke(ctx, jwt.RefreshToken, username, claims.TokenID); err != nil {
				u.log.Warnf("Failed to delete refresh token: %+v", err)
				return err
			}
		}
	}

	if err := u.auditService.LogDelete(ctx, u.db.WithContext(ctx), username, entity.AuditActionTokenRevoke, "token", username, nil); err != nil {
		u.log.Warnf("Failed to audit token revoke: %+v", err)
	}

	return nil
}

func (u *authUsecase) issue(ctx context.Context, username string) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(username)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(username)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Store(ctx, jwt.AccessToken, username, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Store(ctx, jwt.RefreshToken, username, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"pdv-terminal/internal/pkg/errs"
	"pdv-terminal/internal/pkg/jwt"
	"pdv-terminal/internal/pkg/pin"
	"pdv-terminal/internal/usecase/queries"
)

var (
	ErrOperatorNotFound   = errs.New("operator not found")
	ErrInvalidCredentials = errs.New("invalid credentials")
	ErrOperatorInactive   = errs.New("operator inactive")
	ErrTokenGeneration    = errs.New("token generation failed")
	ErrTokenValidation    = errs.New("token validation failed")
)

type LoginResult struct {
	OperatorID uuid.UUID
	CompanyID  uuid.UUID
	TokenPair  *TokenPair
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthCommands interface {
	Login(ctx context.Context, operatorCode, rawPIN string) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authCommandsImpl struct {
	operators  queries.OperatorReadStore
	jwtService *jwt.Service
}

func NewAuthCommands(operators queries.OperatorReadStore, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		operators:  operators,
		jwtService: jwtService,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, operatorCode, rawPIN string) (*LoginResult, error) {
	operator, pinHash, err := a.operators.FindByCode(ctx, operatorCode)
	if err != nil {
		// Same error as PIN mismatch to prevent operator enumeration
		return nil, ErrInvalidCredentials
	}
	if !operator.IsActive {
		return nil, ErrOperatorInactive
	}
	if compareErr := pin.Compare(pinHash, rawPIN); compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := a.jwtService.GenerateAccessToken(operator.ID, operator.CompanyID, operator.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	refreshToken, err := a.jwtService.GenerateRefreshToken(operator.ID, operator.CompanyID, operator.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	slog.Info("operator logged in", "operator_id", operator.ID, "company_id", operator.CompanyID)
	return &LoginResult{
		OperatorID: operator.ID,
		CompanyID:  operator.CompanyID,
		TokenPair: &TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
	}, nil
}

func (a *authCommandsImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenValidation
	}

	// Validate the operator still exists and is active
	operator, err := a.operators.FindByID(ctx, claims.OperatorID)
	if err != nil {
		return nil, ErrOperatorNotFound
	}
	if !operator.IsActive {
		return nil, ErrOperatorInactive
	}

	accessToken, err := a.jwtService.GenerateAccessToken(operator.ID, operator.CompanyID, operator.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	newRefreshToken, err := a.jwtService.GenerateRefreshToken(operator.ID, operator.CompanyID, operator.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

package usecase

import (
	"github.com/google/uuid"

	"pdv-terminal/internal/pkg/errs"
	"pdv-terminal/internal/pkg/jwt"
)

var ErrInvalidAccessToken = errs.New("invalid access token")

// TokenValidator checks a bearer token and extracts the operator identity.
type TokenValidator interface {
	ValidateToken(token string) (operatorID, companyID uuid.UUID, role string, err error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{jwtService: jwtService}
}

func (v *tokenValidatorImpl) ValidateToken(token string) (uuid.UUID, uuid.UUID, string, error) {
	claims, err := v.jwtService.ValidateToken(token)
	if err != nil {
		return uuid.Nil, uuid.Nil, "", errs.Mark(err, ErrInvalidAccessToken)
	}
	if claims.TokenType != jwt.TokenTypeAccess {
		return uuid.Nil, uuid.Nil, "", ErrInvalidAccessToken
	}
	return claims.OperatorID, claims.CompanyID, claims.Role, nil
}

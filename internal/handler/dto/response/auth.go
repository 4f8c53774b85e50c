package response

import (
	"github.com/google/uuid"

	"pdv-terminal/internal/usecase/commands"
)

type LoginResponse struct {
	OperatorID   uuid.UUID `json:"operatorId"`
	CompanyID    uuid.UUID `json:"companyId"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func FromLoginResult(result *commands.LoginResult) *LoginResponse {
	return &LoginResponse{
		OperatorID:   result.OperatorID,
		CompanyID:    result.CompanyID,
		AccessToken:  result.TokenPair.AccessToken,
		RefreshToken: result.TokenPair.RefreshToken,
	}
}

func FromTokenPair(pair *commands.TokenPair) *TokenPairResponse {
	return &TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}

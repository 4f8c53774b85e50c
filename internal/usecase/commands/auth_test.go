//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv-terminal/internal/pkg/errs"
	"pdv-terminal/internal/pkg/jwt"
	"pdv-terminal/internal/pkg/pin"
	"pdv-terminal/internal/usecase/commands"
	"pdv-terminal/internal/usecase/queries"
)

type operatorStoreStub struct {
	operator *queries.OperatorView
	pinHash  string
	err      error
}

func (s *operatorStoreStub) FindByCode(_ context.Context, _ string) (*queries.OperatorView, string, error) {
	return s.operator, s.pinHash, s.err
}

func (s *operatorStoreStub) FindByID(_ context.Context, _ uuid.UUID) (*queries.OperatorView, error) {
	return s.operator, s.err
}

func activeOperator(t *testing.T, rawPIN string) (*queries.OperatorView, string) {
	t.Helper()
	hash, err := pin.Hash(rawPIN)
	require.NoError(t, err)
	return &queries.OperatorView{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		Code:      "OP001",
		Name:      "operator",
		Role:      "cashier",
		IsActive:  true,
	}, hash
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	jwtService := jwt.NewService("test-secret", time.Minute, time.Hour)

	t.Run("valid credentials yield a token pair", func(t *testing.T) {
		operator, hash := activeOperator(t, "1234")
		auth := commands.NewAuthCommands(&operatorStoreStub{operator: operator, pinHash: hash}, jwtService)

		result, err := auth.Login(ctx, "OP001", "1234")

		require.NoError(t, err)
		assert.Equal(t, operator.ID, result.OperatorID)
		assert.Equal(t, operator.CompanyID, result.CompanyID)
		assert.NotEmpty(t, result.TokenPair.AccessToken)
		assert.NotEmpty(t, result.TokenPair.RefreshToken)

		claims, err := jwtService.ValidateToken(result.TokenPair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, jwt.TokenTypeAccess, claims.TokenType)
		assert.Equal(t, "cashier", claims.Role)
	})

	t.Run("wrong pin", func(t *testing.T) {
		operator, hash := activeOperator(t, "1234")
		auth := commands.NewAuthCommands(&operatorStoreStub{operator: operator, pinHash: hash}, jwtService)

		_, err := auth.Login(ctx, "OP001", "0000")

		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("unknown operator looks like a wrong pin", func(t *testing.T) {
		auth := commands.NewAuthCommands(&operatorStoreStub{err: errs.New("not found")}, jwtService)

		_, err := auth.Login(ctx, "NOPE", "1234")

		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("inactive operator", func(t *testing.T) {
		operator, hash := activeOperator(t, "1234")
		operator.IsActive = false
		auth := commands.NewAuthCommands(&operatorStoreStub{operator: operator, pinHash: hash}, jwtService)

		_, err := auth.Login(ctx, "OP001", "1234")

		assert.ErrorIs(t, err, commands.ErrOperatorInactive)
	})
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()
	jwtService := jwt.NewService("test-secret", time.Minute, time.Hour)

	t.Run("rotates both tokens", func(t *testing.T) {
		operator, hash := activeOperator(t, "1234")
		auth := commands.NewAuthCommands(&operatorStoreStub{operator: operator, pinHash: hash}, jwtService)

		login, err := auth.Login(ctx, "OP001", "1234")
		require.NoError(t, err)

		pair, err := auth.RefreshToken(ctx, login.TokenPair.RefreshToken)

		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		operator, hash := activeOperator(t, "1234")
		auth := commands.NewAuthCommands(&operatorStoreStub{operator: operator, pinHash: hash}, jwtService)

		login, err := auth.Login(ctx, "OP001", "1234")
		require.NoError(t, err)

		_, err = auth.RefreshToken(ctx, login.TokenPair.AccessToken)

		assert.ErrorIs(t, err, commands.ErrTokenValidation)
	})

	t.Run("garbage token", func(t *testing.T) {
		auth := commands.NewAuthCommands(&operatorStoreStub{}, jwtService)

		_, err := auth.RefreshToken(ctx, "garbage")

		assert.ErrorIs(t, err, commands.ErrTokenValidation)
	})

	t.Run("operator deactivated after issue", func(t *testing.T) {
		operator, hash := activeOperator(t, "1234")
		store := &operatorStoreStub{operator: operator, pinHash: hash}
		auth := commands.NewAuthCommands(store, jwtService)

		login, err := auth.Login(ctx, "OP001", "1234")
		require.NoError(t, err)

		operator.IsActive = false
		_, err = auth.RefreshToken(ctx, login.TokenPair.RefreshToken)

		assert.ErrorIs(t, err, commands.ErrOperatorInactive)
	})
}

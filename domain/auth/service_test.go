package auth

import (
	"context"
	"testing"

	"github.com/skill404/landing/internal/log"
	apperrors "github.com/skill404/landing/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthService_ExchangeCode(t *testing.T) {
	logger := log.NewLoggerWithJSONOutput()

	t.Run("successful exchange", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		exchanger := NewMockTokenExchanger(ctrl)
		service := NewAuthService(logger, exchanger)

		exchanger.EXPECT().
			Exchange(gomock.Any(), "abc123").
			Return(&AccessTokenResponse{AccessToken: "gho_token", TokenType: "bearer"}, nil)

		token, err := service.ExchangeCode(context.Background(), "abc123")

		require.NoError(t, err)
		assert.Equal(t, "gho_token", token.AccessToken)
	})

	t.Run("empty code is rejected without exchange", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		exchanger := NewMockTokenExchanger(ctrl)
		service := NewAuthService(logger, exchanger)

		exchanger.EXPECT().Exchange(gomock.Any(), gomock.Any()).Times(0)

		token, err := service.ExchangeCode(context.Background(), "  ")

		assert.Nil(t, token)
		assert.Equal(t, apperrors.ErrorTypeInvalidRequest, apperrors.GetErrorType(err))
	})

	t.Run("exchange error is returned unchanged", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		exchanger := NewMockTokenExchanger(ctrl)
		service := NewAuthService(logger, exchanger)

		upstream := apperrors.NewUpstreamError("github token exchange failed", nil)
		exchanger.EXPECT().Exchange(gomock.Any(), "abc123").Return(nil, upstream)

		token, err := service.ExchangeCode(context.Background(), "abc123")

		assert.Nil(t, token)
		assert.ErrorIs(t, err, upstream)
	})

	t.Run("replayed code goes back to github", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		exchanger := NewMockTokenExchanger(ctrl)
		service := NewAuthService(logger, exchanger)

		rejected := apperrors.NewUnauthorizedError("github rejected the authorization code", nil)
		gomock.InOrder(
			exchanger.EXPECT().
				Exchange(gomock.Any(), "abc123").
				Return(&AccessTokenResponse{AccessToken: "gho_secret"}, nil),
			exchanger.EXPECT().
				Exchange(gomock.Any(), "abc123").
				Return(nil, rejected),
		)

		first, err := service.ExchangeCode(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, "gho_secret", first.AccessToken)

		second, err := service.ExchangeCode(context.Background(), "abc123")
		assert.Nil(t, second)
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.GetErrorType(err))
	})
}

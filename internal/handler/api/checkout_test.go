//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"pdv-terminal/internal/domain/sale"
	"pdv-terminal/internal/handler/api"
	"pdv-terminal/internal/pkg/errs"
	"pdv-terminal/internal/pkg/metrics"
	"pdv-terminal/internal/usecase/commands"
)

type checkoutCommandsStub struct {
	result  *commands.CheckoutResult
	err     error
	lastReq commands.FinalizeRequest
}

func (s *checkoutCommandsStub) Finalize(_ context.Context, _ commands.Identity, _ string, req commands.FinalizeRequest) (*commands.CheckoutResult, error) {
	s.lastReq = req
	return s.result, s.err
}

type CheckoutHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	stub   *checkoutCommandsStub
}

func (s *CheckoutHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.stub = &checkoutCommandsStub{}

	handler := api.NewCheckoutHandler(s.stub, metrics.NewTerminalMetrics())
	s.router.POST("/api/terminals/:terminal/checkout", func(c *gin.Context) {
		c.Set("operator_id", uuid.New())
		c.Set("company_id", uuid.New())
		handler.Finalize(c)
	})
}

func TestCheckoutHandlerSuite(t *testing.T) {
	suite.Run(t, new(CheckoutHandlerTestSuite))
}

func (s *CheckoutHandlerTestSuite) perform(body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, "/api/terminals/pdv-01/checkout", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func validCheckoutBody() gin.H {
	return gin.H{
		"payments": []gin.H{
			{"method": "cash", "amount": "25.00"},
		},
	}
}

func (s *CheckoutHandlerTestSuite) TestFinalize() {
	s.Run("success: returns 201 Created with the document", func() {
		s.stub.result = &commands.CheckoutResult{
			State:    commands.StateOnline,
			Document: sale.DocumentRef{FiscalDocID: "doc-1", Number: "NFCE-000123"},
			Snapshot: sale.Snapshot{
				Total:      decimal.RequireFromString("25.00"),
				CapturedAt: time.Date(2025, 6, 16, 14, 30, 0, 0, time.UTC),
			},
		}
		s.stub.err = nil

		rec := s.perform(validCheckoutBody())

		s.Equal(http.StatusCreated, rec.Code)
		var response map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		s.Equal("online", response["state"])
	})

	s.Run("error: 400 Bad Request without payments", func() {
		rec := s.perform(gin.H{"payments": []gin.H{}})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
		}{
			{name: "empty cart", commandsError: commands.ErrEmptyCart, expectedStatus: http.StatusUnprocessableEntity},
			{name: "invalid payment", commandsError: commands.ErrInvalidPayment, expectedStatus: http.StatusBadRequest},
			{name: "missing identity", commandsError: commands.ErrMissingIdentity, expectedStatus: http.StatusUnauthorized},
			{name: "offline queue failed", commandsError: commands.ErrOfflineQueueFailed, expectedStatus: http.StatusServiceUnavailable},
			{name: "internal error", commandsError: errs.New("boom"), expectedStatus: http.StatusInternalServerError},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.stub.result = nil
				s.stub.err = tc.commandsError

				rec := s.perform(validCheckoutBody())
				s.Equal(tc.expectedStatus, rec.Code)
			})
		}
	})
}

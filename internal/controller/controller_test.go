package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alimikegami/pi-callback-service/internal/dto"
	localmiddleware "github.com/alimikegami/pi-callback-service/internal/middleware"
	pkgdto "github.com/alimikegami/pi-callback-service/pkg/dto"
	"github.com/alimikegami/pi-callback-service/pkg/errs"
	"github.com/alimikegami/pi-callback-service/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCallbackService struct {
	handleErr     error
	gotBody       []byte
	gotSignature  string
	flushedCalled bool
}

func (s *stubCallbackService) HandleCallback(ctx context.Context, rawBody []byte, signatureHeader string) (dto.CallbackResponse, error) {
	s.gotBody = rawBody
	s.gotSignature = signatureHeader

	if s.handleErr != nil {
		return dto.CallbackResponse{}, s.handleErr
	}

	return dto.CallbackResponse{Message: "Callback received", PaymentID: "pay-1"}, nil
}

func (s *stubCallbackService) GetNotifications(ctx context.Context, filter pkgdto.Filter) (pkgdto.Pagination, error) {
	return pkgdto.Pagination{Records: []dto.NotificationResponse{}}, nil
}

func (s *stubCallbackService) FlushPendingWrites() {
	s.flushedCalled = true
}

const testJWTSecret = "test-jwt-secret"

func setupServer(svc *stubCallbackService) *echo.Echo {
	e := echo.New()
	g := e.Group("/api/v1")
	CreateCallbackController(e, g, svc, localmiddleware.Auth(testJWTSecret))
	return e
}

func TestPaymentCallback(t *testing.T) {
	type TestCase struct {
		Name           string
		Body           string
		Headers        map[string]string
		ServiceErr     error
		ExpectedStatus int
		ExpectedError  string
	}

	testCases := []TestCase{
		{
			Name:           "Acknowledged",
			Body:           `{"payment_id":"pay-1"}`,
			Headers:        map[string]string{"x-signature": "aa"},
			ExpectedStatus: http.StatusOK,
		},
		{
			Name:           "Invalid signature",
			Body:           `{"payment_id":"pay-1"}`,
			Headers:        map[string]string{"x-signature": "aa"},
			ServiceErr:     errs.ErrInvalidSignature,
			ExpectedStatus: http.StatusUnauthorized,
			ExpectedError:  "Invalid signature",
		},
		{
			Name:           "Missing signature",
			Body:           `{"payment_id":"pay-1"}`,
			ServiceErr:     errs.ErrMissingSignature,
			ExpectedStatus: http.StatusBadRequest,
			ExpectedError:  "Missing signature",
		},
		{
			Name:           "Missing payment_id",
			Body:           `{"status":"APPROVED"}`,
			Headers:        map[string]string{"x-signature": "aa"},
			ServiceErr:     errs.ErrMissingTransactionID,
			ExpectedStatus: http.StatusBadRequest,
			ExpectedError:  "Missing payment_id",
		},
		{
			Name:           "Unexpected error is opaque",
			Body:           `{"payment_id":"pay-1"}`,
			Headers:        map[string]string{"x-signature": "aa"},
			ServiceErr:     assert.AnError,
			ExpectedStatus: http.StatusInternalServerError,
			ExpectedError:  "Internal server error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			svc := &stubCallbackService{handleErr: tc.ServiceErr}
			e := setupServer(svc)

			req := httptest.NewRequest(http.MethodPost, "/pi_callback", strings.NewReader(tc.Body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			for key, value := range tc.Headers {
				req.Header.Set(key, value)
			}
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, tc.ExpectedStatus, rec.Code)
			assert.Equal(t, []byte(tc.Body), svc.gotBody)

			if tc.ExpectedError != "" {
				var errResp map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
				assert.Equal(t, tc.ExpectedError, errResp["error"])
				return
			}

			var resp dto.CallbackResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "pay-1", resp.PaymentID)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestPaymentCallbackSignatureHeaderFallback(t *testing.T) {
	svc := &stubCallbackService{}
	e := setupServer(svc)

	req := httptest.NewRequest(http.MethodPost, "/pi_callback", strings.NewReader(`{"payment_id":"pay-1"}`))
	req.Header.Set("x-pi-signature", "bb")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bb", svc.gotSignature)
}

func TestPaymentCallbackPrefersPrimarySignatureHeader(t *testing.T) {
	svc := &stubCallbackService{}
	e := setupServer(svc)

	req := httptest.NewRequest(http.MethodPost, "/pi_callback", strings.NewReader(`{"payment_id":"pay-1"}`))
	req.Header.Set("x-signature", "aa")
	req.Header.Set("x-pi-signature", "bb")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "aa", svc.gotSignature)
}

func TestGetNotificationsRequiresAuth(t *testing.T) {
	svc := &stubCallbackService{}
	e := setupServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetNotificationsWithToken(t *testing.T) {
	svc := &stubCallbackService{}
	e := setupServer(svc)

	token, err := utils.CreateJWTToken("ops", testJWTSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetNotificationsRejectsForgedToken(t *testing.T) {
	svc := &stubCallbackService{}
	e := setupServer(svc)

	token, err := utils.CreateJWTToken("ops", "some-other-secret")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

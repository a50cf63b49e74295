package validation

import (
	"testing"

	"github.com/alimikegami/pi-callback-service/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNotification(t *testing.T) {
	type TestCase struct {
		Name           string
		Body           string
		ExpectedErr    error
		ExpectedID     string
		ExpectedStatus string
		ExpectedMemo   string
	}

	testCases := []TestCase{
		{
			Name:           "Complete payload",
			Body:           `{"payment_id":"pay-1","status":"APPROVED","memo":"order 42"}`,
			ExpectedID:     "pay-1",
			ExpectedStatus: "APPROVED",
			ExpectedMemo:   "order 42",
		},
		{
			Name:           "Status defaults to unknown",
			Body:           `{"payment_id":"pay-2"}`,
			ExpectedID:     "pay-2",
			ExpectedStatus: "unknown",
		},
		{
			Name:        "Missing payment_id",
			Body:        `{"status":"APPROVED"}`,
			ExpectedErr: errs.ErrMissingTransactionID,
		},
		{
			Name:        "Empty payment_id",
			Body:        `{"payment_id":""}`,
			ExpectedErr: errs.ErrMissingTransactionID,
		},
		{
			Name:        "payment_id is not a string",
			Body:        `{"payment_id":42}`,
			ExpectedErr: errs.ErrMissingTransactionID,
		},
		{
			Name:        "Body is not an object",
			Body:        `[1,2,3]`,
			ExpectedErr: errs.ErrMissingTransactionID,
		},
		{
			Name:        "Body is not JSON",
			Body:        `not json at all`,
			ExpectedErr: errs.ErrMissingTransactionID,
		},
		{
			Name:        "Body is null",
			Body:        `null`,
			ExpectedErr: errs.ErrMissingTransactionID,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			notification, err := ValidateNotification([]byte(tc.Body))

			if tc.ExpectedErr != nil {
				assert.ErrorIs(t, err, tc.ExpectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.ExpectedID, notification.TransactionID)
			assert.Equal(t, tc.ExpectedStatus, notification.Status)
			assert.Equal(t, tc.ExpectedMemo, notification.Memo)
		})
	}
}

func TestValidateNotificationKeepsUnknownFields(t *testing.T) {
	notification, err := ValidateNotification([]byte(`{"payment_id":"pay-3","network_field":"xyz","amount":3.14}`))

	require.NoError(t, err)
	assert.Equal(t, "xyz", notification.Raw["network_field"])
	assert.Equal(t, 3.14, notification.Raw["amount"])
	assert.Equal(t, "pay-3", notification.Raw["payment_id"])
}

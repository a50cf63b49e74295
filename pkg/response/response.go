package response

import (
	"net/http"

	"github.com/alimikegami/pi-callback-service/pkg/errs"
	"github.com/labstack/echo/v4"
)

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteSuccessResponse(c echo.Context, message string, data interface{}) error {
	resp := SuccessResponse{}
	resp.Status = "success"
	resp.Message = message
	resp.Data = data

	return c.JSON(http.StatusOK, resp)
}

// WriteErrorResponse maps the error to its HTTP status code. Anything that
// resolves to a 500 gets an opaque message so internal detail never reaches
// the caller.
func WriteErrorResponse(c echo.Context, err error) error {
	statusCode := errs.GetErrorStatusCode(err)

	message := err.Error()
	if statusCode == http.StatusInternalServerError {
		message = errs.ErrInternalServer.Error()
	}

	return c.JSON(statusCode, ErrorResponse{Error: message})
}

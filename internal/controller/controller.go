package controller

import (
	"io"
	"net/http"

	"github.com/alimikegami/pi-callback-service/internal/service"
	pkgdto "github.com/alimikegami/pi-callback-service/pkg/dto"
	"github.com/alimikegami/pi-callback-service/pkg/errs"
	"github.com/alimikegami/pi-callback-service/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Inbound callbacks cap at 64KB; real notifications are a few hundred bytes.
const maxCallbackBodySize = 64 * 1024

type Controller struct {
	service service.CallbackService
}

func CreateCallbackController(e *echo.Echo, g *echo.Group, service service.CallbackService, isLoggedIn echo.MiddlewareFunc) {
	c := Controller{
		service: service,
	}

	e.POST("/pi_callback", c.PaymentCallback)
	g.GET("/notifications", c.GetNotifications, isLoggedIn)
}

// PaymentCallback reads the raw body before any decoding: the signature is
// computed over the exact bytes the network sent, so binding first would
// break verification.
func (c *Controller) PaymentCallback(e echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(e.Request().Body, maxCallbackBodySize))
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "PaymentCallback").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient)
	}

	signatureHeader := e.Request().Header.Get("x-signature")
	if signatureHeader == "" {
		signatureHeader = e.Request().Header.Get("x-pi-signature")
	}

	resp, err := c.service.HandleCallback(e.Request().Context(), body, signatureHeader)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return e.JSON(http.StatusOK, resp)
}

func (c *Controller) GetNotifications(e echo.Context) error {
	filter := pkgdto.Filter{}
	err := e.Bind(&filter)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "GetNotifications").Msg("")
	}

	responsePayload, err := c.service.GetNotifications(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, "successfully retrieved notification records", responsePayload)
}

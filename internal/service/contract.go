package service

import (
	"context"

	"github.com/alimikegami/pi-callback-service/internal/dto"
	pkgdto "github.com/alimikegami/pi-callback-service/pkg/dto"
)

type CallbackService interface {
	HandleCallback(ctx context.Context, rawBody []byte, signatureHeader string) (resp dto.CallbackResponse, err error)
	GetNotifications(ctx context.Context, filter pkgdto.Filter) (response pkgdto.Pagination, err error)
	FlushPendingWrites()
}

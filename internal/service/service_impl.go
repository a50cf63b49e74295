package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alimikegami/pi-callback-service/config"
	"github.com/alimikegami/pi-callback-service/internal/domain"
	"github.com/alimikegami/pi-callback-service/internal/dto"
	paymentnetwork "github.com/alimikegami/pi-callback-service/internal/infrastructure/payment-network"
	"github.com/alimikegami/pi-callback-service/internal/metrics"
	"github.com/alimikegami/pi-callback-service/internal/repository"
	"github.com/alimikegami/pi-callback-service/internal/signature"
	"github.com/alimikegami/pi-callback-service/internal/validation"
	pkgdto "github.com/alimikegami/pi-callback-service/pkg/dto"
	"github.com/alimikegami/pi-callback-service/pkg/errs"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
)

const pendingWriteQueueSize = 256

type CallbackServiceImpl struct {
	repository     repository.NotificationRepository
	verifier       *signature.Verifier
	kafkaProducer  *kafka.Conn
	platformClient *paymentnetwork.Client
	cb             *gobreaker.CircuitBreaker[any]
	config         *config.Config
	pendingWrites  chan domain.Notification
}

func CreateCallbackService(repository repository.NotificationRepository, verifier *signature.Verifier, kafkaProducer *kafka.Conn, platformClient *paymentnetwork.Client, cb *gobreaker.CircuitBreaker[any], config *config.Config) CallbackService {
	return &CallbackServiceImpl{
		repository:     repository,
		verifier:       verifier,
		kafkaProducer:  kafkaProducer,
		platformClient: platformClient,
		cb:             cb,
		config:         config,
		pendingWrites:  make(chan domain.Notification, pendingWriteQueueSize),
	}
}

// HandleCallback runs the ingestion pipeline: verify the signature over the
// raw bytes, validate the payload shape, then persist best-effort. Once a
// delivery is authenticated and valid it is always acknowledged; a failed
// or unavailable store never turns into a non-2xx response, because the
// payment network treats those as undelivered and retries on its own
// schedule. Persistence gaps are surfaced through logs and metrics and
// retried in the background instead.
func (s *CallbackServiceImpl) HandleCallback(ctx context.Context, rawBody []byte, signatureHeader string) (resp dto.CallbackResponse, err error) {
	start := time.Now()
	metrics.CallbacksReceivedTotal.Inc()
	defer func() {
		metrics.CallbackProcessingDuration.Observe(time.Since(start).Seconds())
	}()

	result, err := s.verifier.Verify(rawBody, signatureHeader)
	if err != nil {
		metrics.CallbacksRejectedTotal.WithLabelValues("signature").Inc()
		log.Ctx(ctx).Warn().Err(err).Str("component", "HandleCallback").Msg("callback rejected")
		return
	}

	if result == signature.ResultUnconfigured {
		metrics.SignatureSkippedTotal.Inc()
		log.Ctx(ctx).Warn().Str("component", "HandleCallback").Msg("no signature secret configured, accepting callback unverified")
	}

	notification, err := validation.ValidateNotification(rawBody)
	if err != nil {
		metrics.CallbacksRejectedTotal.WithLabelValues("payload").Inc()
		log.Ctx(ctx).Warn().Err(err).Str("component", "HandleCallback").Msg("callback rejected")
		return
	}

	s.persistNotification(ctx, notification)

	go s.publishNotificationEvent(notification)
	go s.acknowledgeToPlatform(notification)

	metrics.CallbacksAcknowledgedTotal.Inc()

	return dto.CallbackResponse{
		Message:   "Callback received",
		PaymentID: notification.TransactionID,
	}, nil
}

// persistNotification races the merge-upsert against the configured timeout
// so the acknowledgement always completes within a bounded wall-clock
// budget. Failed writes (other than the store never being configured) are
// queued for background retry; the store's idempotent merge makes replaying
// them safe in any order.
func (s *CallbackServiceImpl) persistNotification(ctx context.Context, notification domain.Notification) {
	storeCtx, cancel := context.WithTimeout(ctx, s.config.CallbackConfig.StoreTimeout)
	defer cancel()

	_, err := s.cb.Execute(func() (any, error) {
		return nil, s.repository.UpsertNotification(storeCtx, notification)
	})
	if err == nil {
		return
	}

	log.Ctx(ctx).Error().Err(err).
		Str("component", "persistNotification").
		Str("transaction_id", notification.TransactionID).
		Msg("notification write failed, acknowledging anyway")
	metrics.StoreWriteFailuresTotal.WithLabelValues(storeFailureReason(err)).Inc()

	if errors.Is(err, errs.ErrStoreUnavailable) {
		return
	}

	s.enqueuePendingWrite(notification)
}

func storeFailureReason(err error) string {
	switch {
	case errors.Is(err, errs.ErrStoreUnavailable):
		return "unavailable"
	case errors.Is(err, errs.ErrStoreTimeout):
		return "timeout"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	default:
		return "write_failed"
	}
}

func (s *CallbackServiceImpl) enqueuePendingWrite(notification domain.Notification) {
	select {
	case s.pendingWrites <- notification:
	default:
		metrics.PendingWritesDroppedTotal.Inc()
		log.Warn().
			Str("component", "enqueuePendingWrite").
			Str("transaction_id", notification.TransactionID).
			Msg("retry queue full, dropping pending write")
	}
}

// FlushPendingWrites drains the retry queue, replaying failed merge-writes.
// Runs on a schedule; stops at the first failure and requeues that item so
// a down store is not hammered.
func (s *CallbackServiceImpl) FlushPendingWrites() {
	for {
		select {
		case notification := <-s.pendingWrites:
			ctx, cancel := context.WithTimeout(context.Background(), s.config.CallbackConfig.StoreTimeout)
			err := s.repository.UpsertNotification(ctx, notification)
			cancel()

			if err != nil {
				log.Error().Err(err).
					Str("component", "FlushPendingWrites").
					Str("transaction_id", notification.TransactionID).
					Msg("")
				s.enqueuePendingWrite(notification)
				return
			}

			log.Info().
				Str("component", "FlushPendingWrites").
				Str("transaction_id", notification.TransactionID).
				Msg("pending write persisted")
		default:
			return
		}
	}
}

func (s *CallbackServiceImpl) publishNotificationEvent(notification domain.Notification) {
	if s.kafkaProducer == nil {
		return
	}

	kafkaMsg := dto.KafkaMessage{
		EventType: "payment_notification_received",
		Data:      notification,
	}

	jsonMsg, err := json.Marshal(kafkaMsg)
	if err != nil {
		log.Error().Err(err).Str("component", "publishNotificationEvent").Msg("")
		return
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		_, err = s.kafkaProducer.WriteMessages(
			kafka.Message{
				Key:   []byte(notification.TransactionID),
				Value: jsonMsg,
			},
		)
		if err == nil {
			return
		}
		log.Error().Err(err).Str("component", "publishNotificationEvent").Msg("")
		time.Sleep(time.Second * time.Duration(i+1)) // Exponential backoff
	}
}

func (s *CallbackServiceImpl) acknowledgeToPlatform(notification domain.Notification) {
	if s.platformClient == nil || notification.Status != "APPROVED" {
		return
	}

	if err := s.platformClient.AcknowledgePayment(notification.TransactionID); err != nil {
		log.Error().Err(err).
			Str("component", "acknowledgeToPlatform").
			Str("transaction_id", notification.TransactionID).
			Msg("")
	}
}

func (s *CallbackServiceImpl) GetNotifications(ctx context.Context, filter pkgdto.Filter) (response pkgdto.Pagination, err error) {
	var notificationResponse []dto.NotificationResponse
	datas, err := s.repository.GetNotifications(ctx, filter)
	if err != nil {
		if errors.Is(err, errs.ErrStoreUnavailable) {
			return response, errs.ErrInternalServer
		}
		return
	}

	for _, data := range datas {
		notificationResponse = append(notificationResponse, dto.NotificationResponse{
			TransactionID: data.TransactionID,
			Status:        data.Status,
			Memo:          data.Memo,
			Raw:           data.Raw,
			ReceivedAt:    data.ReceivedAt,
			UpdatedAt:     data.UpdatedAt,
		})
	}

	response.Records = notificationResponse
	response.Previous, response.Next = buildPaginationLinks(filter, len(notificationResponse))

	return
}

func buildPaginationLinks(filter pkgdto.Filter, recordCount int) (previous *string, next *string) {
	if filter.Limit == 0 || filter.Page == 0 {
		return nil, nil
	}

	if filter.Page > 1 {
		link := notificationsPageLink(filter, filter.Page-1)
		previous = &link
	}

	// a short page means there is nothing beyond it
	if recordCount == filter.Limit {
		link := notificationsPageLink(filter, filter.Page+1)
		next = &link
	}

	return previous, next
}

func notificationsPageLink(filter pkgdto.Filter, page int) string {
	values := url.Values{}
	values.Set("limit", strconv.Itoa(filter.Limit))
	values.Set("page", strconv.Itoa(page))
	if filter.Status != "" {
		values.Set("status", filter.Status)
	}
	if filter.TransactionID != "" {
		values.Set("transaction_id", filter.TransactionID)
	}

	return "/api/v1/notifications?" + values.Encode()
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alimikegami/pi-callback-service/internal/domain"
	pkgdto "github.com/alimikegami/pi-callback-service/pkg/dto"
	"github.com/alimikegami/pi-callback-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const notificationCollection = "notifications"

type MongoDBNotificationRepositoryImpl struct {
	db *mongo.Database
}

// CreateNotificationRepository accepts a nil database handle: that is the
// unavailable configuration state, reported as errs.ErrStoreUnavailable on
// every write so the pipeline can still acknowledge deliveries.
func CreateNotificationRepository(db *mongo.Database) NotificationRepository {
	return &MongoDBNotificationRepositoryImpl{db: db}
}

// UpsertNotification merge-writes the record keyed by transaction_id using
// the store's atomic upsert. Fields absent from this delivery keep their
// previously stored values; last-writer-wins applies per field, never per
// record. Concurrent deliveries for the same id are serialized by the store.
func (r *MongoDBNotificationRepositoryImpl) UpsertNotification(ctx context.Context, data domain.Notification) (err error) {
	if r.db == nil {
		return errs.ErrStoreUnavailable
	}

	filter := bson.D{{Key: "transaction_id", Value: data.TransactionID}}
	update := buildUpsertDocument(data, time.Now().Unix())

	_, err = r.db.Collection(notificationCollection).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpsertNotification").Msg("")
		if errors.Is(err, context.DeadlineExceeded) {
			return errs.ErrStoreTimeout
		}
		return errs.ErrStoreWriteFailed
	}

	return nil
}

func (r *MongoDBNotificationRepositoryImpl) GetNotifications(ctx context.Context, param pkgdto.Filter) (data []domain.Notification, err error) {
	if r.db == nil {
		return nil, errs.ErrStoreUnavailable
	}

	filter := bson.D{}
	if param.Status != "" {
		filter = append(filter, bson.E{Key: "status", Value: param.Status})
	}
	if param.TransactionID != "" {
		filter = append(filter, bson.E{Key: "transaction_id", Value: param.TransactionID})
	}

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	if param.Limit != 0 && param.Page != 0 {
		opts = opts.SetSkip((int64(param.Page) - 1) * int64(param.Limit)).SetLimit(int64(param.Limit))
	}

	cursor, err := r.db.Collection(notificationCollection).Find(ctx, filter, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetNotifications").Msg("")
		return
	}

	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetNotifications").Msg("")
		return
	}

	return data, nil
}

func (r *MongoDBNotificationRepositoryImpl) GetNotificationByTransactionID(ctx context.Context, transactionID string) (data domain.Notification, err error) {
	if r.db == nil {
		return data, errs.ErrStoreUnavailable
	}

	filter := bson.D{{Key: "transaction_id", Value: transactionID}}

	err = r.db.Collection(notificationCollection).FindOne(ctx, filter).Decode(&data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetNotificationByTransactionID").Msg("")
		if err == mongo.ErrNoDocuments {
			return data, errs.ErrNotFound
		}

		return data, err
	}

	return data, nil
}

// buildUpsertDocument constructs the merge-write. A field joins $set only
// when the delivery actually carries it, so an omitted status or memo never
// clobbers a previously stored value; the "unknown" status default applies
// on first insert only.
func buildUpsertDocument(data domain.Notification, now int64) bson.D {
	set := bson.D{
		{Key: "raw", Value: data.Raw},
		{Key: "updated_at", Value: now},
	}
	setOnInsert := bson.D{
		{Key: "transaction_id", Value: data.TransactionID},
		{Key: "received_at", Value: now},
	}

	if rawFieldPresent(data.Raw, "status") {
		set = append(set, bson.E{Key: "status", Value: data.Status})
	} else {
		setOnInsert = append(setOnInsert, bson.E{Key: "status", Value: domain.StatusUnknown})
	}

	if rawFieldPresent(data.Raw, "memo") {
		set = append(set, bson.E{Key: "memo", Value: data.Memo})
	}

	return bson.D{
		{Key: "$set", Value: set},
		{Key: "$setOnInsert", Value: setOnInsert},
	}
}

func rawFieldPresent(raw map[string]interface{}, key string) bool {
	value, ok := raw[key].(string)
	return ok && value != ""
}

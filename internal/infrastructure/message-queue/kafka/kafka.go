package kafka

import (
	"context"

	"github.com/alimikegami/pi-callback-service/config"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// CreateKafkaProducer returns nil when no broker is configured or the dial
// fails. Event fan-out is best-effort and must never keep the callback
// endpoint from coming up.
func CreateKafkaProducer(config *config.Config) *kafka.Conn {
	if config.KafkaConfig.BrokerAddress == "" {
		return nil
	}

	conn, err := kafka.DialLeader(context.Background(), "tcp", config.KafkaConfig.BrokerAddress, config.KafkaConfig.BrokerTopic, config.KafkaConfig.BrokerPartition)
	if err != nil {
		log.Error().Err(err).Str("component", "CreateKafkaProducer").Msg("")
		return nil
	}

	return conn
}

package app

import (
	"github.com/guttosm/kandypack-dispatch/config"
	"github.com/guttosm/kandypack-dispatch/internal/events"
	"github.com/rs/zerolog/log"
)

// InitializePublisher returns a Kafka publisher when brokers are configured.
// Otherwise, or when the producer cannot connect, events go to the log.
func InitializePublisher(cfg config.KafkaConfig) events.Publisher {
	if !cfg.Enabled() {
		return events.NewLogPublisher()
	}

	publisher, err := events.NewKafkaPublisher(cfg.Brokers, cfg.Topic)
	if err != nil {
		log.Error().Err(err).Strs("brokers", cfg.Brokers).Msg("Failed to connect to Kafka - publishing events to the log")
		return events.NewLogPublisher()
	}
	return publisher
}

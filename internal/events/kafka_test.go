package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	tests := []struct {
		name    string
		event   model.Event
		fail    error
		wantErr bool
	}{
		{
			name:  "order event",
			event: model.Event{Type: model.EventAllocationConfirmed, OrderID: "ord-1", OrderItemID: "item-1", Leg: model.LegTruck},
		},
		{
			name:  "trip event",
			event: model.Event{Type: model.EventNeedsStaffing, TripInstanceID: "s1:truck-1:20260105T1300"},
		},
		{
			name:    "broker failure",
			event:   model.Event{Type: model.EventAllocationFailed, OrderID: "ord-2"},
			fail:    sarama.ErrOutOfBrokers,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
			if tt.fail != nil {
				producer.ExpectSendMessageAndFail(tt.fail)
			} else {
				want := tt.event
				producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
					var got model.Event
					if err := json.Unmarshal(val, &got); err != nil {
						return err
					}
					if got.Type != want.Type || got.OrderID != want.OrderID || got.TripInstanceID != want.TripInstanceID {
						return errors.New("unexpected payload")
					}
					if got.ID == "" {
						return errors.New("missing event id")
					}
					return nil
				})
			}

			p := NewKafkaPublisherWithProducer(producer, "")
			err := p.Publish(context.Background(), tt.event)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.fail)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, p.Close())
		})
	}
}

func TestKafkaPublisher_DefaultTopic(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	p := NewKafkaPublisherWithProducer(producer, "")
	assert.Equal(t, DefaultTopic, p.topic)
	assert.NoError(t, p.Close())
}

func TestNewProducerConfig(t *testing.T) {
	cfg := NewProducerConfig()
	assert.True(t, cfg.Producer.Return.Successes)
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
}

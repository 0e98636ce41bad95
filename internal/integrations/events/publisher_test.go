package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/pkg/logger"
)

func TestPublisher_Publish(t *testing.T) {
	rentalID := "r-1"
	event := &domain.RentalEvent{
		Type:       domain.EventRentalStarted,
		UserID:     42,
		ConsoleID:  "ps5-1",
		RentalID:   &rentalID,
		OccurredAt: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
	}

	t.Run("Success", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, nil)
		producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
			var got domain.RentalEvent
			if err := json.Unmarshal(val, &got); err != nil {
				return err
			}
			if got.Type != domain.EventRentalStarted || got.ConsoleID != "ps5-1" {
				return errors.New("unexpected event payload")
			}
			return nil
		})

		publisher := NewPublisher(producer, "", logger.NewNop())

		require.NoError(t, publisher.Publish(context.Background(), event))
		require.NoError(t, publisher.Close())
	})

	t.Run("Broker failure", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, nil)
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

		publisher := NewPublisher(producer, "events", logger.NewNop())

		err := publisher.Publish(context.Background(), event)
		assert.ErrorIs(t, err, ErrSend)
		require.NoError(t, publisher.Close())
	})
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), &domain.RentalEvent{}))
}

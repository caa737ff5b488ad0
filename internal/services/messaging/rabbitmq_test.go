package messaging

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// RabbitMQLogicTestSuite tests the behaviour that does not need a broker.
type RabbitMQLogicTestSuite struct {
	suite.Suite
	logger *zap.Logger
}

func (s *RabbitMQLogicTestSuite) SetupTest() {
	var err error
	s.logger, err = zap.NewDevelopment()
	s.Require().NoError(err)
}

func (s *RabbitMQLogicTestSuite) TestNewRabbitMQManager() {
	url := "amqp://localhost:5672/"
	manager := NewRabbitMQManager(url, s.logger)

	s.NotNil(manager)
	s.Equal(url, manager.url)
	s.NotNil(manager.channels)
	s.NotNil(manager.done)
	s.False(manager.IsConnected())
}

func (s *RabbitMQLogicTestSuite) TestOperationsFailWithoutConnection() {
	manager := NewRabbitMQManager("amqp://localhost:5672/", s.logger)

	_, err := manager.GetChannel(publisherChannelID)
	s.ErrorContains(err, "connection is not available")

	_, err = manager.PublishMessage(context.Background(), "public_reservations", []byte(`{}`))
	s.Error(err)

	s.Error(manager.CreateQueue("public_reservations"))

	_, err = manager.Consume("public_reservations", "tag", 1)
	s.Error(err)
}

func (s *RabbitMQLogicTestSuite) TestCloseChannelUnknownIsNoop() {
	manager := NewRabbitMQManager("amqp://localhost:5672/", s.logger)
	s.NoError(manager.CloseChannel("missing"))
}

func (s *RabbitMQLogicTestSuite) TestCloseIsIdempotent() {
	manager := NewRabbitMQManager("amqp://localhost:5672/", s.logger)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NoError(manager.Close())
		}()
	}
	wg.Wait()

	select {
	case <-manager.done:
	default:
		s.Fail("done channel should be closed")
	}
}

func TestRabbitMQLogicSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQLogicTestSuite))
}

func TestDeadLetterQueueName(t *testing.T) {
	assert.Equal(t, "public_reservations.dlq", DeadLetterQueueName("public_reservations"))
}

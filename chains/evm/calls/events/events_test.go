package events_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/across-protocol/dataworker/chains/evm/calls/events"
)

type EventSigTestSuite struct {
	suite.Suite
}

func TestRunEventSigTestSuite(t *testing.T) {
	suite.Run(t, new(EventSigTestSuite))
}

func (s *EventSigTestSuite) Test_DistinctTopics() {
	s.NotEqual(events.FundsDepositedSig.GetTopic(), events.FilledRelaySig.GetTopic())
	s.NotEqual(events.FundsDepositedSig.GetTopic(), events.RequestedSlowFillSig.GetTopic())
}

func (s *EventSigTestSuite) Test_Deterministic() {
	s.Equal(events.FundsDepositedSig.GetTopic(), events.FundsDepositedSig.GetTopic())
}

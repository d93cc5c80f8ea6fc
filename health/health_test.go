package health_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/across-protocol/dataworker/health"
)

type ReporterTestSuite struct {
	suite.Suite
}

func TestRunReporterTestSuite(t *testing.T) {
	suite.Run(t, new(ReporterTestSuite))
}

func (s *ReporterTestSuite) Test_ReportCycle_Success() {
	r := health.NewReporter()
	r.ReportCycle("propose", nil)

	status := r.Status()
	s.Equal("propose", status.LastCycle)
	s.Empty(status.LastError)
	s.False(status.LastCycleAt.IsZero())
}

func (s *ReporterTestSuite) Test_ReportCycle_Error() {
	r := health.NewReporter()
	r.ReportCycle("validate", errors.New("rpc timeout"))

	status := r.Status()
	s.Equal("validate", status.LastCycle)
	s.Equal("rpc timeout", status.LastError)
}

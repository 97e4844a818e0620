package scheduler_test

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/hapgraph/rstcore/genbench"
	"github.com/hapgraph/rstcore/scheduler"
)

// RunSuite exercises the concurrent subgraph scheduler: successful
// fan-out, bounded concurrency and fail-fast error propagation.
type RunSuite struct {
	suite.Suite
}

func (s *RunSuite) task(name string, count int) scheduler.Task {
	g, err := genbench.LinearChain(count, 10, []string{"h1"})
	s.Require().NoError(err)
	return scheduler.Task{Name: name, Graph: g, MinRes: 0.04}
}

// TestRunBuildsEveryTaskInOrder verifies Run returns one Result per
// Task, in the same order tasks were supplied, each carrying its own
// Meta.Name.
func (s *RunSuite) TestRunBuildsEveryTaskInOrder() {
	tasks := []scheduler.Task{s.task("a", 3), s.task("b", 5), s.task("c", 2)}
	results, err := scheduler.Run(context.Background(), tasks, 0, logr.Discard())
	require.NoError(s.T(), err)
	require.Len(s.T(), results, 3)
	require.Equal(s.T(), "a", results[0].Name)
	require.Equal(s.T(), "b", results[1].Name)
	require.Equal(s.T(), "c", results[2].Name)
	require.EqualValues(s.T(), 30, results[0].Meta.TotalLength)
	require.EqualValues(s.T(), 50, results[1].Meta.TotalLength)
}

// TestRunRespectsConcurrencyLimit verifies a concurrency cap of 1 still
// produces correct results (serialized execution is a valid schedule).
func (s *RunSuite) TestRunRespectsConcurrencyLimit() {
	tasks := []scheduler.Task{s.task("a", 3), s.task("b", 4)}
	results, err := scheduler.Run(context.Background(), tasks, 1, logr.Discard())
	require.NoError(s.T(), err)
	require.Len(s.T(), results, 2)
}

// TestRunFailsFastAndReturnsNoPartialResults verifies a single invalid
// task (min_res <= 0) fails the whole batch with a TaskError identifying
// the offending subgraph, and Run returns no results at all.
func (s *RunSuite) TestRunFailsFastAndReturnsNoPartialResults() {
	bad := s.task("bad", 3)
	bad.MinRes = 0
	tasks := []scheduler.Task{s.task("good", 3), bad}

	results, err := scheduler.Run(context.Background(), tasks, 0, logr.Discard())
	require.Error(s.T(), err)
	require.Nil(s.T(), results)

	var taskErr *scheduler.TaskError
	require.ErrorAs(s.T(), err, &taskErr)
	require.Equal(s.T(), "bad", taskErr.Subgraph)
}

// TestRunPropagatesCanceledContext verifies a pre-canceled context
// aborts the batch without running any task to completion.
func (s *RunSuite) TestRunPropagatesCanceledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks := []scheduler.Task{s.task("a", 3)}
	_, err := scheduler.Run(ctx, tasks, 0, logr.Discard())
	require.Error(s.T(), err)
}

func TestRunSuite(t *testing.T) {
	suite.Run(t, new(RunSuite))
}

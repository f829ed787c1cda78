package runner

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tickworks/minbar/pkg/common"
	"github.com/tickworks/minbar/pkg/schema"
)

func validJob(name string) Job {
	return Job{
		Name: name,
		Rows: []schema.Row{
			{"TradingTime": "09:30:00", "LastPrice": "3.20", "TradeVolume": "10"},
			{"TradingTime": "09:31:00", "LastPrice": "3.25", "TradeVolume": "5"},
		},
		Ctx: common.BatchContext{TradingDate: "20180115", Symbol: "T1803"},
	}
}

func TestProcess(t *testing.T) {
	jobs := make([]Job, 8)
	for i := range jobs {
		jobs[i] = validJob(fmt.Sprintf("file-%d", i))
	}

	outcomes := Process(context.Background(), zap.NewNop(), jobs, 3)
	require.Len(t, outcomes, len(jobs))

	// Outcomes line up with the job order regardless of worker scheduling.
	for i, outcome := range outcomes {
		assert.Equal(t, jobs[i].Name, outcome.Job.Name)
		require.NoError(t, outcome.Err)
		assert.Len(t, outcome.Result.Bars, 2)
	}
}

func TestProcess_failedBatchIsIsolated(t *testing.T) {
	jobs := []Job{
		validJob("good-1"),
		{
			Name: "bad",
			Rows: []schema.Row{{"Volume": "1"}},
			Ctx:  common.BatchContext{TradingDate: "20180115", Symbol: "T1803"},
		},
		validJob("good-2"),
	}

	outcomes := Process(context.Background(), zap.NewNop(), jobs, 2)
	require.Len(t, outcomes, 3)

	assert.NoError(t, outcomes[0].Err)
	var se *schema.SchemaError
	assert.ErrorAs(t, outcomes[1].Err, &se)
	assert.NoError(t, outcomes[2].Err)
	assert.Len(t, outcomes[2].Result.Bars, 2)
}

func TestProcess_invalidWorkerCount(t *testing.T) {
	outcomes := Process(context.Background(), zap.NewNop(), []Job{validJob("only")}, 0)
	require.Len(t, outcomes, 1)
	assert.NoError(t, outcomes[0].Err)
}

func TestProcess_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := Process(ctx, zap.NewNop(), []Job{validJob("a"), validJob("b")}, 1)
	require.Len(t, outcomes, 2)
	for _, outcome := range outcomes {
		assert.ErrorIs(t, outcome.Err, context.Canceled)
	}
}

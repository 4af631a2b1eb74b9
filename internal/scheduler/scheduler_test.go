package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goYieldVault/internal/core/types"
	"github.com/LeJamon/goYieldVault/internal/service"
)

type fakeCranker struct {
	addr   types.Address
	calls  int
	signer types.Address
	err    error
}

func (f *fakeCranker) Address() types.Address { return f.addr }

func (f *fakeCranker) Crank(_ context.Context, signer, _ types.Address) ([]service.CrankResult, error) {
	f.calls++
	f.signer = signer
	return []service.CrankResult{{Reserve: types.Address{9}, Skipped: true}}, f.err
}

func TestRunNowCranksEveryVault(t *testing.T) {
	a := &fakeCranker{addr: types.Address{1}}
	b := &fakeCranker{addr: types.Address{2}, err: errors.New("boom")}
	c := &fakeCranker{addr: types.Address{3}}

	s := NewScheduler(context.Background(), types.Address{7}, types.Address{8}, a, b, c)
	persisted := 0
	s.AfterRun = func() error {
		persisted++
		return nil
	}
	s.RunNow()

	for _, f := range []*fakeCranker{a, b, c} {
		assert.Equal(t, 1, f.calls)
		assert.Equal(t, types.Address{7}, f.signer)
	}
	assert.Equal(t, 1, persisted)
}

func TestCanceledContextStopsPass(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := &fakeCranker{addr: types.Address{1}}

	NewScheduler(ctx, types.Address{}, types.Address{}, a).RunNow()
	assert.Zero(t, a.calls)
}

func TestRegister(t *testing.T) {
	s := NewScheduler(context.Background(), types.Address{}, types.Address{})
	require.NoError(t, s.Register("0 */5 * * * *"))
	require.NoError(t, s.Register("@every 30s"))
	assert.Error(t, s.Register("not a schedule"))
	assert.Len(t, s.Cron.Entries(), 2)

	s.Start()
	s.Stop()
}

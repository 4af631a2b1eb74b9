// Package scheduler cranks vaults on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/LeJamon/goYieldVault/internal/core/types"
	"github.com/LeJamon/goYieldVault/internal/service"
)

// Cranker rebalances one vault.
type Cranker interface {
	Address() types.Address
	Crank(ctx context.Context, signer, payerTokenAccount types.Address) ([]service.CrankResult, error)
}

// Scheduler manages the crank task.
type Scheduler struct {
	Cron   *cron.Cron
	Ctx    context.Context
	Signer types.Address
	Payer  types.Address
	// AfterRun is called after every crank pass, e.g. to persist the market.
	AfterRun func() error

	mu     sync.Mutex
	vaults []Cranker
}

// NewScheduler creates a new Scheduler. Specs accept a leading seconds field.
func NewScheduler(ctx context.Context, signer, payer types.Address, vaults ...Cranker) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Ctx:    ctx,
		Signer: signer,
		Payer:  payer,
		vaults: vaults,
	}
}

// Register schedules the crank pass.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.crankTask); err != nil {
		return fmt.Errorf("register crank task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes a crank pass immediately.
func (s *Scheduler) RunNow() {
	s.crankTask()
}

func (s *Scheduler) crankTask() {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Printf("[INFO] running crank over %d vaults", len(s.vaults))
	for _, v := range s.vaults {
		if s.Ctx.Err() != nil {
			return
		}
		results, err := v.Crank(s.Ctx, s.Signer, s.Payer)
		invested := 0
		for _, r := range results {
			if r.Entry != nil {
				invested++
			}
		}
		if err != nil {
			log.Printf("[ERROR] crank vault %s: %v", v.Address().Short(), err)
		}
		log.Printf("[INFO] crank vault %s: %d of %d reserves rebalanced", v.Address().Short(), invested, len(results))
	}

	if s.AfterRun != nil {
		if err := s.AfterRun(); err != nil {
			log.Printf("[ERROR] after crank: %v", err)
		}
	}
}

package usecase

import (
	"time"

	"github.com/viney-shih/goroutines"

	"github.com/x-xyz/auctionapi/base/backoff"
	"github.com/x-xyz/auctionapi/base/counter"
	"github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/base/goroutine"
	"github.com/x-xyz/auctionapi/base/log"
	"github.com/x-xyz/auctionapi/domain"
	"github.com/x-xyz/auctionapi/domain/auction"
)

const (
	defaultSweepInterval = 30 * time.Second
	sweepBatchSize       = 200
)

// Settler sweeps expired open auctions and settles them so sellers do not
// depend on anyone calling settle by hand. Manual settle calls race the
// sweep safely: both paths go through the per-auction lock and the loser
// gets AlreadySettled.
type Settler struct {
	auctionUC   auction.UseCase
	auctionRepo auction.Repo
	interval    time.Duration
	pool        *goroutines.Pool
	stop        chan struct{}
}

type SettlerCfg struct {
	AuctionUC   auction.UseCase
	AuctionRepo auction.Repo
	Interval    time.Duration
}

func NewSettler(cfg *SettlerCfg) *Settler {
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultSweepInterval
	}
	return &Settler{
		auctionUC:   cfg.AuctionUC,
		auctionRepo: cfg.AuctionRepo,
		interval:    interval,
		pool:        goroutines.NewPool(8, goroutines.WithTaskQueueLength(256)),
		stop:        make(chan struct{}),
	}
}

func (s *Settler) Start(c ctx.Ctx) {
	goroutine.RecoverableGo(func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		bo := backoff.NewExponential(s.interval, 10*time.Minute)
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				if err := s.sweep(c); err != nil {
					// store errors are usually transient, slow down instead of
					// hammering mongo every tick
					if err := bo.Backoff(c); err != nil {
						return
					}
					continue
				}
				bo.Reset()
			}
		}
	})
}

func (s *Settler) Stop() {
	close(s.stop)
	s.pool.Release()
}

func (s *Settler) sweep(c ctx.Ctx) error {
	expired, err := s.auctionRepo.FindAll(c,
		auction.WithStatus(auction.StatusOpen),
		auction.WithEndTimeLT(time.Now()),
		auction.WithPagination(0, sweepBatchSize),
	)
	if err != nil {
		c.WithField("err", err).Error("auctionRepo.FindAll failed")
		return err
	}

	scheduled := counter.NewCounter()
	for _, a := range expired {
		id := a.AuctionId
		err := s.pool.ScheduleWithTimeout(3*time.Second, func() {
			if _, err := s.auctionUC.Settle(c, id); err != nil &&
				err != domain.ErrAuctionAlreadySettled &&
				err != domain.ErrNotYetExpired {
				c.WithFields(log.Fields{
					"err":       err,
					"auctionId": id,
				}).Error("background settle failed")
			}
		})
		if err != nil {
			c.WithFields(log.Fields{
				"err":       err,
				"auctionId": id,
			}).Error("failed to schedule settle")
			continue
		}
		scheduled.Add(1)
	}
	if len(expired) > 0 {
		c.WithFields(log.Fields{
			"expired":   len(expired),
			"scheduled": scheduled.Count(),
		}).Info("sweep scheduled")
	}
	return nil
}

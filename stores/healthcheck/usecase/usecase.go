package usecase

import (
	"time"

	"github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/domain/auction"
	hcdomain "github.com/x-xyz/auctionapi/domain/healthcheck"
)

type impl struct {
	repo        hcdomain.HealthCheckRepo
	auctionRepo auction.Repo
}

// New creates new healthCheckUsecase object representation of HealthCheckUsecase interface
func New(repo hcdomain.HealthCheckRepo, auctionRepo auction.Repo) hcdomain.HealthCheckUsecase {
	return &impl{
		repo:        repo,
		auctionRepo: auctionRepo,
	}
}

func (im *impl) Check(context ctx.Ctx) (*hcdomain.Report, error) {
	if err := im.repo.PingDB(context); err != nil {
		return nil, err
	}

	// a growing backlog means the sweeper is stuck or the chain is down
	backlog, err := im.auctionRepo.Count(context,
		auction.WithStatus(auction.StatusOpen),
		auction.WithEndTimeLT(time.Now()),
	)
	if err != nil {
		return nil, err
	}

	return &hcdomain.Report{
		Healthy:       true,
		SettleBacklog: backlog,
	}, nil
}

package healthcheck

import (
	"github.com/x-xyz/auctionapi/base/ctx"
)

// Report carries liveness plus the settlement backlog, the number of
// expired auctions still waiting for the sweeper.
type Report struct {
	Healthy       bool `json:"healthy"`
	SettleBacklog int  `json:"settleBacklog"`
}

// HealthCheckRepo pings the backing stores
type HealthCheckRepo interface {
	PingDB(ctx.Ctx) error
}

// HealthCheckUsecase reports service liveness
type HealthCheckUsecase interface {
	Check(ctx.Ctx) (*Report, error)
}

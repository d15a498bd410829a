package chainlink

import (
	"math/big"

	"github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/domain"
)

// Chainlink reads aggregator proxy contracts. Answers are raw, in the
// feed's own decimals.
type Chainlink interface {
	GetLatestAnswer(c ctx.Ctx, chainId domain.ChainId, feedAddress domain.Address) (*big.Int, error)
}

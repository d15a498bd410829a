package pricenormalizer

import (
	"math/big"

	"github.com/shopspring/decimal"

	bCtx "github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/domain"
)

// PriceNormalizer converts raw pay token amounts into the common value unit
// (usd scaled by 1e18) so bids in different currencies compare directly.
// Conversions floor, they never round up.
type PriceNormalizer interface {
	// Normalize returns the value-unit worth of rawAmount at the current
	// oracle answer.
	Normalize(ctx bCtx.Ctx, chainId domain.ChainId, token domain.Address, rawAmount *big.Int) (*big.Int, error)

	// DisplayPrice renders rawAmount in whole pay tokens, exact.
	DisplayPrice(ctx bCtx.Ctx, chainId domain.ChainId, token domain.Address, rawAmount *big.Int) (decimal.Decimal, error)
}

package domain

import (
	"math/big"

	"github.com/x-xyz/auctionapi/base/ctx"
)

// ChainlinkUsecase reads the latest reported unit price for a pay token from
// its configured feed. Answer is in feed decimals; non-positive answers come
// back as ErrInvalidOraclePrice so callers abort instead of normalizing
// against garbage.
type ChainlinkUsecase interface {
	GetLatestAnswer(c ctx.Ctx, chainId ChainId, token Address) (*big.Int, error)
}

package domain

import (
	"math/big"

	"github.com/x-xyz/auctionapi/base/ctx"
)

// FundTransfer is the uniform transfer-channel capability over a pay token.
// Pull debits the counterparty into engine custody (erc20 transferFrom, which
// requires a prior allowance); Push credits the counterparty from engine
// custody. Both pay token kinds route through this interface, so there are no
// parallel native/erc20 code paths in the ledger.
type FundTransfer interface {
	Pull(c ctx.Ctx, chainId ChainId, token Address, from Address, amount *big.Int) error
	Push(c ctx.Ctx, chainId ChainId, token Address, to Address, amount *big.Int) error
}

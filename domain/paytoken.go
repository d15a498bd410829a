package domain

import (
	"github.com/x-xyz/auctionapi/base/ctx"
)

type Id struct {
	ChainId ChainId `bson:"chainId"`
	Address Address `bson:"address"`
}

// PayTokenKind is the currency variant: the chain's native coin (routed
// through its wrapped token) or a plain erc20.
type PayTokenKind string

const (
	PayTokenKindNative PayTokenKind = "native"
	PayTokenKindErc20  PayTokenKind = "erc20"
)

// PayToken is a settlement currency an auction may accept. Address is the
// transfer-channel contract (for the native kind, the wrapped token), and
// ChainlinkProxyAddress is the oracle handle used to normalize bids.
type PayToken struct {
	Name                  string       `bson:"name"`
	Symbol                string       `bson:"symbol"`
	Kind                  PayTokenKind `bson:"kind"`
	Decimals              int32        `bson:"decimals"` // decimals for chainlink pricefeed
	TokenDecimals         int32        `bson:"tokenDecimals"`
	ChainId               ChainId      `bson:"chainId"`
	Address               Address      `bson:"address"`
	ChainlinkProxyAddress Address      `bson:"chainlinkProxyAddress"`
	IsMainnet             bool         `bson:"isMainnet"`
}

func (t *PayToken) ToId() *Id {
	return &Id{
		ChainId: t.ChainId,
		Address: t.Address,
	}
}

type PayTokenRepo interface {
	FindOne(ctx.Ctx, ChainId, Address) (*PayToken, error)
	FindAll(ctx.Ctx, ChainId) ([]*PayToken, error)
	Create(ctx.Ctx, *PayToken) error
	Upsert(ctx.Ctx, *PayToken) error
}

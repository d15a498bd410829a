package domain

import (
	"math/big"

	"github.com/x-xyz/auctionapi/base/ctx"
)

// NftItemId identifies the asset under auction: collection contract plus
// token id on a chain.
type NftItemId struct {
	ChainId         ChainId `json:"chainId" bson:"chainId"`
	ContractAddress Address `json:"contractAddress" bson:"contractAddress"`
	TokenId         TokenId `json:"tokenId" bson:"tokenId"`
}

// TokenRegistry is the external erc721 registry holding the auctioned asset.
// Transfer fails if from is not the current holder.
type TokenRegistry interface {
	OwnerOf(c ctx.Ctx, chainId ChainId, contract Address, tokenId *big.Int) (Address, error)
	Transfer(c ctx.Ctx, chainId ChainId, contract Address, from, to Address, tokenId *big.Int) error
}

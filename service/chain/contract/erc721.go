package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	baseabi "github.com/x-xyz/auctionapi/base/abi"
	bCtx "github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/domain"
	"github.com/x-xyz/auctionapi/service/chain"
)

// Erc721 adapts an erc721 collection contract to domain.TokenRegistry.
type Erc721 struct {
	chainService      chain.Client
	abi               ethabi.ABI
	erc721InterfaceId [4]byte
}

func NewErc721(chainService chain.Client) *Erc721 {
	var interfaceId [4]byte
	copy(interfaceId[:], common.Hex2Bytes("80ac58cd"))
	return &Erc721{
		abi:               baseabi.ERC721TokenABI,
		chainService:      chainService,
		erc721InterfaceId: interfaceId,
	}
}

func (e *Erc721) Supports721Interface(ctx bCtx.Ctx, chainId domain.ChainId, addr domain.Address) (bool, error) {
	method := "supportsInterface"
	unpacked, err := e.chainService.Call(ctx, int32(chainId), common.HexToAddress(string(addr)), nil, e.abi, method, e.erc721InterfaceId)
	if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}

func (e *Erc721) OwnerOf(ctx bCtx.Ctx, chainId domain.ChainId, contract domain.Address, tokenId *big.Int) (domain.Address, error) {
	method := "ownerOf"
	unpacked, err := e.chainService.Call(ctx, int32(chainId), common.HexToAddress(string(contract)), nil, e.abi, method, tokenId)
	if err != nil {
		return "", err
	}
	return domain.Address(unpacked[0].(common.Address).String()).ToLower(), nil
}

func (e *Erc721) Transfer(ctx bCtx.Ctx, chainId domain.ChainId, contract domain.Address, from, to domain.Address, tokenId *big.Int) error {
	method := "safeTransferFrom"
	_, err := e.chainService.Transact(
		ctx,
		int32(chainId),
		common.HexToAddress(string(contract)),
		e.abi,
		method,
		common.HexToAddress(string(from)),
		common.HexToAddress(string(to)),
		tokenId,
	)
	return err
}

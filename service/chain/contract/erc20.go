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

// Erc20 adapts erc20 token contracts to domain.FundTransfer. Pulled funds
// land in the custody account, pushes spend from it.
type Erc20 struct {
	chainService chain.Client
	abi          ethabi.ABI
}

func NewErc20(chainService chain.Client) *Erc20 {
	return &Erc20{
		abi:          baseabi.ERC20TokenABI,
		chainService: chainService,
	}
}

func (e *Erc20) BalanceOf(ctx bCtx.Ctx, chainId domain.ChainId, token, owner domain.Address) (*big.Int, error) {
	method := "balanceOf"
	unpacked, err := e.chainService.Call(ctx, int32(chainId), common.HexToAddress(string(token)), nil, e.abi, method, common.HexToAddress(string(owner)))
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (e *Erc20) Allowance(ctx bCtx.Ctx, chainId domain.ChainId, token, owner domain.Address) (*big.Int, error) {
	method := "allowance"
	unpacked, err := e.chainService.Call(ctx, int32(chainId), common.HexToAddress(string(token)), nil, e.abi, method, common.HexToAddress(string(owner)), e.chainService.Signer())
	if err != nil {
		return nil, err
	}
	return unpacked[0].(*big.Int), nil
}

func (e *Erc20) Pull(ctx bCtx.Ctx, chainId domain.ChainId, token domain.Address, from domain.Address, amount *big.Int) error {
	method := "transferFrom"
	_, err := e.chainService.Transact(
		ctx,
		int32(chainId),
		common.HexToAddress(string(token)),
		e.abi,
		method,
		common.HexToAddress(string(from)),
		e.chainService.Signer(),
		amount,
	)
	return err
}

func (e *Erc20) Push(ctx bCtx.Ctx, chainId domain.ChainId, token domain.Address, to domain.Address, amount *big.Int) error {
	method := "transfer"
	_, err := e.chainService.Transact(
		ctx,
		int32(chainId),
		common.HexToAddress(string(token)),
		e.abi,
		method,
		common.HexToAddress(string(to)),
		amount,
	)
	return err
}

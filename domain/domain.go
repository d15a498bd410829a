package domain

import (
	"math/big"
	"strconv"
	"strings"
)

var (
	Big0  = big.NewInt(0)
	Big1  = big.NewInt(1)
	Big10 = big.NewInt(10)
)

type SortDir int8

const (
	SortDirAsc  = 1
	SortDirDesc = -1
)

type ChainId int32

func (c ChainId) String() string {
	return strconv.FormatInt(int64(c), 10)
}

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerPtr() *Address {
	res := a.ToLower()
	return &res
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

type TokenId string

func (i TokenId) String() string {
	return string(i)
}

// AuctionId indexes the auction arena. Ids are allocated monotonically from
// the counters collection, so they double as creation order.
type AuctionId int64

type BlockNumber uint64

type TxHash string

// Table is a mongo collection name
type Table string

const (
	TableAuctions          Table = "auctions"
	TableAuctionActivities Table = "auctionActivities"
	TablePayTokens         Table = "payTokens"
	TableCounters          Table = "counters"
)

// ToBigInt parses base-10 integer strings, the storage format for uint256
// amounts.
func ToBigInt(nums []string) ([]*big.Int, error) {
	var bns []*big.Int
	for _, n := range nums {
		bn, ok := new(big.Int).SetString(n, 10)
		if !ok {
			return nil, ErrInvalidNumberFormat
		}
		bns = append(bns, bn)
	}
	return bns, nil
}

// ParseBigInt parses one stored amount.
func ParseBigInt(num string) (*big.Int, error) {
	bn, ok := new(big.Int).SetString(num, 10)
	if !ok {
		return nil, ErrInvalidNumberFormat
	}
	return bn, nil
}

// ChainIdWrappedNativeMap routes the native currency variant through the
// chain's wrapped-native token so native and erc20 bids share one transfer
// channel.
var ChainIdWrappedNativeMap map[ChainId]Address = map[ChainId]Address{
	// eth
	1: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
	// goerli
	5: "0xb4fbf271143f4fbf7b91a5ded31805e42b2208d6",
	// bsc
	56: "0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c",
	// fantom
	250: "0x21be370d5312f44cb42ce377bc9b8a0cef1a4c83",
}

package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")

	ErrInvalidNumberFormat = errors.New("invalid number format")
	ErrInvalidChainId      = errors.New("invalid chain id")
	ErrInvalidAddress      = errors.New("Invalid address")

	// auction lifecycle
	ErrAuctionNotFound       = errors.New("auction not found")
	ErrInvalidDuration       = errors.New("auction duration below minimum")
	ErrInvalidStartingPrice  = errors.New("starting price must be positive")
	ErrAuctionExpired        = errors.New("auction expired")
	ErrAuctionAlreadySettled = errors.New("auction already settled")
	ErrNotYetExpired         = errors.New("auction not yet expired")

	// bidding
	ErrBidTooLow     = errors.New("bid value too low")
	ErrWrongCurrency = errors.New("pay token not accepted by this auction")

	// value transfer
	ErrTransferFailed     = errors.New("inbound transfer failed")
	ErrRefundFailed       = errors.New("refund to displaced bidder failed")
	ErrDisbursementFailed = errors.New("settlement disbursement failed")

	// oracle
	ErrNoPriceFeed        = errors.New("no price feed")
	ErrInvalidOraclePrice = errors.New("oracle reported invalid price")
)

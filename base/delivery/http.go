package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/auctionapi/domain"
	"github.com/x-xyz/auctionapi/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

// MakeJsonResp renders data in the shared response envelope. When data is an
// error from the auction taxonomy the status code is overridden so callers
// can tell rejections apart without parsing messages.
func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		if s, mapped := statusForError(err); mapped {
			status = s
		}
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}

func statusForError(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrAuctionNotFound),
		errors.Is(err, query.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrAuctionExpired),
		errors.Is(err, domain.ErrAuctionAlreadySettled),
		errors.Is(err, domain.ErrNotYetExpired):
		return http.StatusConflict, true
	case errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidStartingPrice),
		errors.Is(err, domain.ErrBidTooLow),
		errors.Is(err, domain.ErrWrongCurrency),
		errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest, true
	case errors.Is(err, domain.ErrTransferFailed),
		errors.Is(err, domain.ErrRefundFailed),
		errors.Is(err, domain.ErrDisbursementFailed),
		errors.Is(err, domain.ErrInvalidOraclePrice):
		return http.StatusBadGateway, true
	}
	return 0, false
}

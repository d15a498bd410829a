package mongoclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/auctionapi/base/ptr"
)

func TestMakeBsonM(t *testing.T) {
	type patchableAuction struct {
		Status    *string `bson:"status,omitempty"`
		Winner    *string `bson:"winner,omitempty"`
		RawAmount string  `bson:"rawAmount"`
		Note      string  `bson:"note"`
	}

	patchable := &patchableAuction{}
	patchable.Status = ptr.String("")
	patchable.Winner = ptr.String("0xabc")
	patchable.Note = "settled"

	updater, err := MakeBsonM(patchable)

	assert.NoError(t, err)
	assert.Equal(
		t,
		bson.M{
			"status": "",
			"winner": "0xabc",
			// rawAmount is the zero value, so it is skipped
			"note": "settled",
		},
		updater,
	)
}

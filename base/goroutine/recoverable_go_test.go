package goroutine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecoverableGo(t *testing.T) {
	req := require.New(t)

	done := RecoverableGo(func() {})
	ev, ok := <-done
	req.Nil(ev)
	req.False(ok)
}

func TestRecoverableGoPanic(t *testing.T) {
	req := require.New(t)

	recovered := false
	done := RecoverableGo(func() {
		panic("boom")
	}, WithAfterRecovered(func(p interface{}, stack []byte) {
		recovered = true
	}))

	ev := <-done
	req.NotNil(ev)
	req.Equal("boom", ev.Panic)
	req.True(recovered)
}

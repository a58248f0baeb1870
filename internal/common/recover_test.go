package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestRecoverToError(t *testing.T) {
	work := func(fn func()) (err error) {
		defer RecoverToError(arbor.NewLogger(), "worker", &err)
		fn()
		return nil
	}

	t.Run("panic becomes error", func(t *testing.T) {
		err := work(func() { panic("boom") })
		require.Error(t, err)
		assert.Equal(t, "panic in worker: boom", err.Error())
	})

	t.Run("no panic keeps result", func(t *testing.T) {
		assert.NoError(t, work(func() {}))
	})

	t.Run("returned error untouched", func(t *testing.T) {
		sentinel := errors.New("plain")
		err := func() (err error) {
			defer RecoverToError(nil, "worker", &err)
			return sentinel
		}()
		assert.ErrorIs(t, err, sentinel)
	})
}

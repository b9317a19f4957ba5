package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPending(t *testing.T) {
	t.Run("resolves once", func(t *testing.T) {
		p := NewPending()
		errFirst := errors.New("first")
		p.Resolve(errFirst)
		p.Resolve(nil)
		assert.Equal(t, errFirst, p.Wait(context.Background()))
	})

	t.Run("wait honours context", func(t *testing.T) {
		p := NewPending()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.Equal(t, context.DeadlineExceeded, p.Wait(ctx))

		select {
		case <-p.Done():
			t.Error("pending resolved without Resolve()")
		default:
		}
	})

	t.Run("resolved", func(t *testing.T) {
		p := Resolved(nil)
		<-p.Done()
		assert.NoError(t, p.Wait(context.Background()))
	})
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Awe@Test.cd", CleanString("  Awe@Test.cd \n"))
	assert.Equal(t, "awe@test.cd", CleanString("  Awe@Test.cd \n", true))
}

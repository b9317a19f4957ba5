package core

import (
	"context"
	"sync"
)

// Pending is the result of an operation running in the background.
// It resolves exactly once.
type Pending struct {
	done chan struct{}
	once sync.Once
	err  error
}

func NewPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Resolved returns an already resolved Pending.
func Resolved(err error) *Pending {
	p := NewPending()
	p.Resolve(err)
	return p
}

// Resolve marks p as done. Only the first call has an effect.
func (p *Pending) Resolve(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

// Done is closed once p resolves.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until p resolves or ctx is done, whichever happens first.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

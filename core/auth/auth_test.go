package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/skillxp/core"
	logsvc "github.com/trezcool/skillxp/services/logger"
	inmemkv "github.com/trezcool/skillxp/storage/kv/inmem"
)

var errBackendDown = errors.New("backend down")

// flakyKV wraps an in-memory store and fails the operations listed in failOn.
type flakyKV struct {
	*inmemkv.Store

	mu     sync.Mutex
	failOn map[string]bool // "get" | "set" | "delete"
}

func newFlakyKV(failOn ...string) *flakyKV {
	kv := &flakyKV{Store: inmemkv.New(), failOn: make(map[string]bool)}
	for _, op := range failOn {
		kv.failOn[op] = true
	}
	return kv
}

func (kv *flakyKV) fails(op string) bool {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	return kv.failOn[op]
}

func (kv *flakyKV) Get(ctx context.Context, key string) ([]byte, error) {
	if kv.fails("get") {
		return nil, errBackendDown
	}
	return kv.Store.Get(ctx, key)
}

func (kv *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	if kv.fails("set") {
		return errBackendDown
	}
	return kv.Store.Set(ctx, key, value)
}

func (kv *flakyKV) Create(ctx context.Context, key string, value []byte) error {
	if kv.fails("set") {
		return errBackendDown
	}
	return kv.Store.Create(ctx, key, value)
}

func (kv *flakyKV) Delete(ctx context.Context, key string) error {
	if kv.fails("delete") {
		return errBackendDown
	}
	return kv.Store.Delete(ctx, key)
}

var _ core.KVStore = (*flakyKV)(nil)

func newTestService(t *testing.T, kv core.KVStore, opts ...Options) (*Service, *logsvc.Recorder) {
	t.Helper()
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	logger := logsvc.NewRecorder()
	return NewService(NewStore(kv), logger, o), logger
}

// readyService returns a restored Service over kv.
func readyService(t *testing.T, kv core.KVStore, opts ...Options) (*Service, *logsvc.Recorder) {
	t.Helper()
	svc, logger := newTestService(t, kv, opts...)
	require.NoError(t, svc.WaitReady(context.Background()))
	return svc, logger
}

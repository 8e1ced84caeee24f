package storage

import (
	"context"
	"sync"
)

// procLocks serializes loads within this process, keyed by store. Backend
// locks cover other processes.
var procLocks sync.Map // string -> chan struct{}

// acquireProcess blocks until the in-process lock for key is free or ctx is
// done. The returned func releases it.
func acquireProcess(ctx context.Context, key string) (func(), error) {
	v, _ := procLocks.LoadOrStore(key, make(chan struct{}, 1))
	ch := v.(chan struct{})
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

package memory

import (
	"context"
	"sync"
)

// TxManager serializes grouped writes against the store. There is no
// rollback here; the in-memory store exists for local play where a
// failed half-write just means restarting the process.
type TxManager struct {
	txMu *sync.Mutex
}

func NewTxManager(_ *Store) TxManager {
	return TxManager{txMu: &sync.Mutex{}}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	return fn(ctx)
}

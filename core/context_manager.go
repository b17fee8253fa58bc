package core

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ygjlovebl/sawtooth-core/pkg/utils"
)

// txnContext is a tentative overlay of writes atop a base state hash or a
// composition of base contexts. Contexts are single-writer by their
// creating consumer; the manager never mutates one concurrently with its
// owner, but guards the context table itself since multiple goroutines may
// create/commit/discard contexts concurrently.
type txnContext struct {
	id           string
	baseHash     string
	baseContexts []string
	inputs       map[string]struct{}
	outputs      map[string]struct{}
	writes       map[string][]byte
}

// ContextManager creates, populates, and commits/discards contexts against
// a backing StateStore. It is otherwise a black box to the scheduler. It
// talks to store exclusively through the StateStore interface — any
// implementation of that interface works here, not just MemoryStateStore.
type ContextManager struct {
	mu        sync.Mutex
	store     StateStore
	firstRoot string
	contexts  map[string]*txnContext
}

// NewContextManager wires a context manager to the given backing store.
func NewContextManager(store StateStore) *ContextManager {
	return &ContextManager{
		store:     store,
		firstRoot: store.FirstRoot(),
		contexts:  make(map[string]*txnContext),
	}
}

// GetFirstRoot returns the canonical initial state hash.
func (cm *ContextManager) GetFirstRoot() string {
	return cm.firstRoot
}

func toSet(vals []string) map[string]struct{} {
	s := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// CreateContext allocates a fresh context over a snapshot derived from
// stateHash or the composition of baseContexts, restricted to reads within
// inputs and writes within outputs. Scope enforcement is delegated to the
// underlying store; the scheduler only passes inputs/outputs through.
func (cm *ContextManager) CreateContext(stateHash string, inputs, outputs, baseContexts []string) string {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	id := uuid.NewString()
	cm.contexts[id] = &txnContext{
		id:           id,
		baseHash:     stateHash,
		baseContexts: append([]string(nil), baseContexts...),
		inputs:       toSet(inputs),
		outputs:      toSet(outputs),
		writes:       make(map[string][]byte),
	}
	return id
}

// Set applies tentative writes to a context. Writes outside the context's
// declared output scope are logged but not rejected — enforcing read/write
// scope is the underlying store's responsibility, not this manager's.
func (cm *ContextManager) Set(contextID string, writes map[string][]byte) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	ctx, ok := cm.contexts[contextID]
	if !ok {
		return utils.Wrap(fmt.Errorf("unknown context %s", contextID), "context set")
	}
	for addr, val := range writes {
		if len(ctx.outputs) > 0 {
			if _, allowed := ctx.outputs[addr]; !allowed {
				defaultLogger.WithFields(map[string]interface{}{
					"context": contextID, "addr": addr,
				}).Warn("write outside declared output scope")
			}
		}
		ctx.writes[addr] = val
	}
	return nil
}

// flatten merges a context (and, transitively, its base contexts) atop a
// base state snapshot, writing the resulting full state into into.
func (cm *ContextManager) flatten(contextID string, into map[string][]byte, seen map[string]bool) {
	if seen[contextID] {
		return
	}
	seen[contextID] = true
	ctx, ok := cm.contexts[contextID]
	if !ok {
		return
	}
	for _, base := range ctx.baseContexts {
		cm.flatten(base, into, seen)
	}
	for k, v := range ctx.writes {
		into[k] = v
	}
}

// CommitContext finalizes the listed contexts in order, applying their
// writes atop the backing store's snapshot at their shared base hash.
// virtual=false promotes the result to the backing store; virtual=true
// only computes the resulting root.
func (cm *ContextManager) CommitContext(contextIDs []string, virtual bool) (string, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if len(contextIDs) == 0 {
		if virtual {
			return cm.firstRoot, nil
		}
		return cm.firstRoot, nil
	}
	first, ok := cm.contexts[contextIDs[0]]
	if !ok {
		return "", utils.Wrap(fmt.Errorf("unknown context %s", contextIDs[0]), "commit context")
	}
	merged := cm.store.SnapshotAt(first.baseHash)
	seen := make(map[string]bool)
	for _, id := range contextIDs {
		if _, ok := cm.contexts[id]; !ok {
			return "", utils.Wrap(fmt.Errorf("unknown context %s", id), "commit context")
		}
		cm.flatten(id, merged, seen)
	}
	root := hashState(merged)
	if !virtual {
		cm.store.Promote(root, merged)
		for _, id := range contextIDs {
			delete(cm.contexts, id)
		}
	}
	return root, nil
}

// Discard drops contexts from the table without committing them, used when
// an enclosing batch fails validity.
func (cm *ContextManager) Discard(contextIDs []string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for _, id := range contextIDs {
		delete(cm.contexts, id)
	}
}

// GetSquashHandler returns a callable equivalent to CommitContext(ids,
// false) for the scheduler to invoke at batch boundaries.
func (cm *ContextManager) GetSquashHandler() func([]string) (string, error) {
	return func(ids []string) (string, error) {
		return cm.CommitContext(ids, false)
	}
}

package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/ygjlovebl/sawtooth-core/pkg/utils"
)

// ScheduledTxnInfo is the record yielded by the scheduler for each
// transaction: its base state hash and the contexts it should build upon.
type ScheduledTxnInfo struct {
	Txn            *Transaction
	StateHash      string
	BaseContextIDs []string
}

// BatchExecutionResult reports a batch's outcome. StateHash is present iff
// IsValid.
type BatchExecutionResult struct {
	IsValid      bool
	StateHash    string
	HasStateHash bool
}

type txnResult struct {
	valid     bool
	contextID string
}

type batchRecord struct {
	sig       string
	txnSigs   []string
	remaining int
	result    *BatchExecutionResult
}

// SerialScheduler ingests batches, hands out their transactions one at a
// time in submission order, and collects per-transaction results. Its
// current_base chain advances only at batch boundaries: a later invalid
// transaction in a batch invalidates the whole batch, so intra-batch
// squashing would have to be unwound.
type SerialScheduler struct {
	mu     sync.Mutex
	cond   *sync.Cond
	ctxMgr *ContextManager
	squash func([]string) (string, error)

	pending []*Transaction

	dispatched []ScheduledTxnInfo

	inFlight    bool
	inFlightSig string

	results    map[string]txnResult
	batches    map[string]*batchRecord
	txnToBatch map[string]*batchRecord

	currentBase string
	successCtxs []string

	finalized bool
}

// NewSerialScheduler wires a scheduler to the given context manager,
// adopting its squash handler and first-root as the initial base hash.
func NewSerialScheduler(ctxMgr *ContextManager) *SerialScheduler {
	s := &SerialScheduler{
		ctxMgr:      ctxMgr,
		squash:      ctxMgr.GetSquashHandler(),
		results:     make(map[string]txnResult),
		batches:     make(map[string]*batchRecord),
		txnToBatch:  make(map[string]*batchRecord),
		currentBase: ctxMgr.GetFirstRoot(),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// AddBatch enqueues every transaction of b in order. Legal at any time
// before Finalize; never blocks.
func (s *SerialScheduler) AddBatch(b *Batch) error {
	if b == nil || len(b.Transactions) == 0 {
		return fmt.Errorf("add_batch: batch must be non-empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return utils.Wrap(fmt.Errorf("add_batch after finalize"), "protocol misuse")
	}
	rec := &batchRecord{sig: b.HeaderSignature, remaining: len(b.Transactions)}
	for _, txn := range b.Transactions {
		rec.txnSigs = append(rec.txnSigs, txn.HeaderSignature)
		s.txnToBatch[txn.HeaderSignature] = rec
		s.pending = append(s.pending, txn)
	}
	s.batches[b.HeaderSignature] = rec
	s.cond.Broadcast()
	return nil
}

// Finalize marks the input stream closed. Never blocks; legal before or
// after the last result is reported.
func (s *SerialScheduler) Finalize() {
	s.mu.Lock()
	s.finalized = true
	s.cond.Broadcast()
	s.mu.Unlock()
}

// dispatchNextLocked dispatches the head of the pending queue if the queue
// is non-empty and nothing is in flight. Caller must hold s.mu.
func (s *SerialScheduler) dispatchNextLocked() (ScheduledTxnInfo, bool) {
	if s.inFlight || len(s.pending) == 0 {
		return ScheduledTxnInfo{}, false
	}
	txn := s.pending[0]
	s.pending = s.pending[1:]

	var base []string
	if n := len(s.successCtxs); n > 0 {
		base = []string{s.successCtxs[n-1]}
	}
	info := ScheduledTxnInfo{Txn: txn, StateHash: s.currentBase, BaseContextIDs: base}
	s.dispatched = append(s.dispatched, info)
	s.inFlight = true
	s.inFlightSig = txn.HeaderSignature
	s.cond.Broadcast()
	return info, true
}

// NextTransaction is the non-blocking dispatch primitive: it returns the
// next transaction iff the queue is non-empty and nothing is in flight.
func (s *SerialScheduler) NextTransaction() (ScheduledTxnInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchNextLocked()
}

// SchedulerIterator is a cursor into the scheduler's append-only dispatch
// log. It is a handle, not a generator: its state is the cursor position,
// not a copy of the scheduler's queue, so multiple iterators observe the
// identical dispatch sequence without ever causing a transaction to be
// issued twice.
type SchedulerIterator struct {
	s   *SerialScheduler
	pos int
}

// Iterator returns a new cursor over this scheduler's dispatch sequence.
func (s *SerialScheduler) Iterator() *SchedulerIterator {
	return &SchedulerIterator{s: s}
}

// Next blocks until the next transaction is available or the scheduler is
// both finalized and drained, in which case it returns (zero, false). The
// core defines no cancellation of an in-flight transaction, but Next still
// honors ctx so a caller can stop waiting for the next one; pass
// context.Background() for unconditional blocking.
func (it *SchedulerIterator) Next(ctx context.Context) (ScheduledTxnInfo, bool) {
	s := it.s
	if ctx != nil && ctx.Done() != nil {
		stop := context.AfterFunc(ctx, func() {
			s.mu.Lock()
			s.cond.Broadcast()
			s.mu.Unlock()
		})
		defer stop()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		if it.pos < len(s.dispatched) {
			info := s.dispatched[it.pos]
			it.pos++
			return info, true
		}
		if _, ok := s.dispatchNextLocked(); ok {
			continue
		}
		if s.finalized && len(s.pending) == 0 && !s.inFlight {
			return ScheduledTxnInfo{}, false
		}
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ScheduledTxnInfo{}, false
			default:
			}
		}
		s.cond.Wait()
	}
}

// SetTransactionExecutionResult records the outcome of the currently
// in-flight transaction, releases the in-flight slot, and — if this
// completes a batch — computes the batch's validity and end-state.
func (s *SerialScheduler) SetTransactionExecutionResult(headerSig string, valid bool, contextID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inFlight || s.inFlightSig != headerSig {
		return utils.Wrap(fmt.Errorf("no in-flight transaction %q", headerSig), "protocol misuse")
	}
	rec, ok := s.txnToBatch[headerSig]
	if !ok {
		return utils.Wrap(fmt.Errorf("unknown transaction %q", headerSig), "protocol misuse")
	}

	s.results[headerSig] = txnResult{valid: valid, contextID: contextID}
	if valid {
		s.successCtxs = append(s.successCtxs, contextID)
	}
	s.inFlight = false
	s.inFlightSig = ""

	rec.remaining--
	if rec.remaining == 0 {
		s.finishBatchLocked(rec)
	}
	s.cond.Broadcast()
	return nil
}

// finishBatchLocked computes rec's BatchExecutionResult once every one of
// its transactions has a recorded result. Caller must hold s.mu.
func (s *SerialScheduler) finishBatchLocked(rec *batchRecord) {
	allValid := true
	for _, sig := range rec.txnSigs {
		r, ok := s.results[sig]
		if !ok || !r.valid {
			allValid = false
			break
		}
	}

	if allValid {
		root, err := s.squash(s.successCtxs)
		if err != nil {
			defaultLogger.WithError(err).WithField("batch", rec.sig).Error("squash failed")
			rec.result = &BatchExecutionResult{IsValid: false}
			s.ctxMgr.Discard(s.successCtxs)
		} else {
			rec.result = &BatchExecutionResult{IsValid: true, StateHash: root, HasStateHash: true}
			s.currentBase = root
		}
	} else {
		rec.result = &BatchExecutionResult{IsValid: false}
		s.ctxMgr.Discard(s.successCtxs)
	}
	s.successCtxs = nil
}

// Complete reports whether the scheduler is finalized and every enqueued
// transaction has a recorded result. With block=true it waits until true.
func (s *SerialScheduler) Complete(block bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		done := s.finalized && len(s.pending) == 0 && !s.inFlight
		if done || !block {
			return done
		}
		s.cond.Wait()
	}
}

// GetBatchExecutionResult returns the result for batchSig once every
// transaction in that batch has a recorded result.
func (s *SerialScheduler) GetBatchExecutionResult(batchSig string) (BatchExecutionResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.batches[batchSig]
	if !ok || rec.result == nil {
		return BatchExecutionResult{}, false
	}
	return *rec.result, true
}

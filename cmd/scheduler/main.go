// Command scheduler is a thin demo harness that wires the scheduling core
// together and drains a handful of synthetic transactions end to end. It
// exists to exercise the wiring, not as a validator CLI — the core takes
// no CLI, config, or logging surface as part of its contract.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ygjlovebl/sawtooth-core/core"
	"github.com/ygjlovebl/sawtooth-core/pkg/config"
)

func main() {
	root := &cobra.Command{Use: "scheduler"}
	root.AddCommand(runCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var batchSize int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "submit a synthetic batch and drain it through the scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(batchSize)
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", 3, "number of synthetic transactions to submit")
	return cmd
}

func runDemo(batchSize int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	tree := core.NewPredecessorTree(cfg.Scheduler.TokenSize)

	store := core.NewMemoryStateStore()
	ctxMgr := core.NewContextManager(store)
	sched := core.NewSerialScheduler(ctxMgr)

	batch := syntheticBatch(batchSize)
	if err := sched.AddBatch(batch); err != nil {
		return err
	}
	sched.Finalize()

	it := sched.Iterator()
	for {
		info, ok := it.Next(context.Background())
		if !ok {
			break
		}
		ctxID := ctxMgr.CreateContext(info.StateHash, info.Txn.Inputs(), info.Txn.Outputs(), info.BaseContextIDs)
		_ = ctxMgr.Set(ctxID, map[string][]byte{info.Txn.Outputs()[0]: info.Txn.Payload})
		for _, addr := range info.Txn.Outputs() {
			tree.SetWriter(addr, info.Txn.HeaderSignature)
		}
		if err := sched.SetTransactionExecutionResult(info.Txn.HeaderSignature, true, ctxID); err != nil {
			return err
		}
	}

	result, _ := sched.GetBatchExecutionResult(batch.HeaderSignature)
	fmt.Printf("batch %s valid=%v state_hash=%s\n", batch.HeaderSignature, result.IsValid, result.StateHash)
	return nil
}

func syntheticBatch(n int) *core.Batch {
	txns := make([]*core.Transaction, 0, n)
	for i := 0; i < n; i++ {
		addr := core.DeriveAddress("demo", []byte{byte(i)})
		txn, err := core.NewTransaction(core.TransactionHeader{
			FamilyName: "demo",
			Outputs:    []string{addr},
			Inputs:     []string{addr},
		}, []byte(fmt.Sprintf("payload-%d", i)))
		if err != nil {
			panic(err)
		}
		txn.HeaderSignature = fmt.Sprintf("demo-txn-%d", i)
		txns = append(txns, txn)
	}
	return &core.Batch{Transactions: txns, HeaderSignature: "demo-batch"}
}

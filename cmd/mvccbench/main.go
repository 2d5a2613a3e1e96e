// Command mvccbench drives concurrent worker threads against an SI or
// SI+SSN transaction manager, the way original_source/SI/SI-run.cc and
// original_source/SI-SSN/SI-run.cc drive SnapshotIsolationManager: each
// worker repeatedly begins a transaction, issues a randomized sequence of
// reads (and, unless the transaction is read-only, writes), sleeps for a
// think time drawn from an exponential distribution, then retries on
// abort until it commits.
package main

import (
	"flag"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/btree"

	"github.com/riftdb/mvcc-ssn/cmd/mvccbench/config"
	"github.com/riftdb/mvcc-ssn/internal/obs"
	"github.com/riftdb/mvcc-ssn/oracle"
	"github.com/riftdb/mvcc-ssn/store"
	"github.com/riftdb/mvcc-ssn/txn"
)

// threadResult accumulates one worker's outcome, mirroring the
// totalCommitTime/totalCommitted/totalAborts atomics original_source's
// run harness keeps globally — kept per-thread here and reduced at the
// end so each worker touches only its own counters while running.
type threadResult struct {
	threadID      int
	commitDelayMs int64
	committed     int64
	aborts        int64
}

func main() {
	configFile := flag.String("config", "", "path to a benchmark config file (yaml/json/toml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	obs.Init(cfg.LogLevel)

	runID := uuid.New()
	obs.Infof("mvccbench: run=%s protocol=%s threads=%d items=%d trans_per_thread=%d",
		runID, cfg.Protocol, cfg.NumThreads, cfg.NumItems, cfg.NumTrans)

	s := store.New(cfg.NumItems)
	o := oracle.New()

	var manager txn.Manager
	switch cfg.Protocol {
	case "si":
		manager = txn.NewSI(s, o)
	default:
		manager = txn.NewSSN(s, o)
	}

	// Per-thread results keyed by thread id; an ordered table (rather than
	// a plain slice) so a mid-run inspection tool could binary-search it
	// the same way store.Store uses tidwall/btree for its active-start-ts
	// set — here it's small, but the data shape matches the rest of the
	// module's domain stack rather than reaching for a bare slice.
	results := btree.NewMap[int, *threadResult](0)
	var resultsMu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < cfg.NumThreads; i++ {
		wg.Add(1)
		go func(threadID int) {
			defer wg.Done()
			res := runWorker(threadID, manager, cfg)
			resultsMu.Lock()
			results.Set(threadID, res)
			resultsMu.Unlock()
		}(i + 1)
	}
	wg.Wait()

	report(runID, results)
}

// runWorker implements one workerThread from the original run harness:
// numTrans transactions, each doing numIters read/(write) steps with an
// exponential think-time sleep, retried on abort.
func runWorker(threadID int, manager txn.Manager, cfg *config.Config) *threadResult {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(threadID)*1_000_003))
	res := &threadResult{threadID: threadID}
	lambda := cfg.LambdaSleepMs
	if lambda <= 0 {
		lambda = 1
	}

	for t := 0; t < cfg.NumTrans; t++ {
		start := time.Now()
		var aborts int64

		for {
			tx := manager.Begin()
			readOnly := cfg.Protocol == "ssn" && rng.Float64() < cfg.ReadRatio

			for i := 0; i < cfg.NumIters; i++ {
				key := rng.Intn(cfg.NumItems)
				value := manager.Read(tx, key)
				obs.Debugf("mvccbench: thread=%d tx=%d reads key=%d value=%d", threadID, tx.ID, key, value)

				if !readOnly {
					value += rng.Int63n(cfg.ConstVal + 1)
					manager.Write(tx, key, value)
					obs.Debugf("mvccbench: thread=%d tx=%d writes key=%d value=%d", threadID, tx.ID, key, value)
				}

				time.Sleep(time.Duration(rng.ExpFloat64()*lambda) * time.Millisecond)
			}

			outcome := manager.TryCommit(tx)
			obs.Debugf("mvccbench: thread=%d tx=%d => %s", threadID, tx.ID, outcome)

			if outcome == txn.Committed {
				res.commitDelayMs += time.Since(start).Milliseconds()
				res.committed++
				res.aborts += aborts
				break
			}
			aborts++
		}
	}
	return res
}

func report(runID uuid.UUID, results *btree.Map[int, *threadResult]) {
	var totalCommitted, totalAborts, totalDelayMs int64

	results.Scan(func(_ int, res *threadResult) bool {
		totalCommitted += res.committed
		totalAborts += res.aborts
		totalDelayMs += res.commitDelayMs
		return true
	})

	var avgDelay, avgAborts float64
	if totalCommitted > 0 {
		avgDelay = float64(totalDelayMs) / float64(totalCommitted)
		avgAborts = float64(totalAborts) / float64(totalCommitted)
	}

	obs.Infof("mvccbench: run=%s committed=%d aborts=%d avg_commit_delay_ms=%.2f avg_aborts_per_commit=%.2f",
		runID, totalCommitted, totalAborts, avgDelay, avgAborts)
}

package capgains

import (
	"cmp"
	"context"
	"math"
	"runtime"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// partition is the share of a run owned by a single goroutine: all the
// transactions of one symbol, in their original order.
type partition struct {
	symbol    string
	indices   []int // positions in the run
	firstBuy  int   // position of the first BUY, or math.MaxInt
	firstGain int   // position of the first realized SELL, or math.MaxInt
	proc      *Processor
	stats     Stats
}

// ProcessParallel applies txs like ProcessAll, but processes different
// symbols concurrently on up to workers goroutines (GOMAXPROCS if workers is
// not positive).
//
// Transactions of the same symbol are always processed in order by the same
// goroutine. The resulting ledger and summary are identical to a sequential
// run. Reporter calls are serialized but events of different symbols may
// interleave. On error the ledger and gains of the processor are left
// untouched.
func (p *Processor) ProcessParallel(ctx context.Context, txs []Transaction, workers int) (Stats, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Every goroutine checks against the currency of the run.
	if p.currency == "" {
		for _, tx := range txs {
			if c := tx.price.Currency(); c != "" {
				p.currency = c
				break
			}
		}
	}

	shared := &syncReporter{r: p.reporter}
	var parts []*partition
	bySymbol := make(map[string]*partition)
	for i, tx := range txs {
		part, exists := bySymbol[tx.symbol]
		if !exists {
			part = &partition{
				symbol:    tx.symbol,
				firstBuy:  math.MaxInt,
				firstGain: math.MaxInt,
				proc: &Processor{
					ledger:   NewLedger(),
					gains:    NewGains(),
					reporter: shared,
					log:      p.log.With(zap.String("worker", tx.symbol)),
					tracer:   p.tracer,
					currency: p.currency,
				},
			}
			if lots, held := p.ledger.queues[tx.symbol]; held {
				part.proc.ledger.restore(tx.symbol, slices.Clone(lots))
			}
			bySymbol[tx.symbol] = part
			parts = append(parts, part)
		}
		if tx.kind == Buy && part.firstBuy == math.MaxInt {
			part.firstBuy = i
		}
		part.indices = append(part.indices, i)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, part := range parts {
		g.Go(func() error {
			for _, i := range part.indices {
				if err := gctx.Err(); err != nil {
					return err
				}
				tx := txs[i]
				perr := part.proc.Process(gctx, tx)
				if err := part.stats.add(tx, perr); err != nil {
					return err
				}
				if perr == nil && tx.kind == Sell && part.firstGain == math.MaxInt {
					part.firstGain = i
				}
			}
			return nil
		})
	}

	var stats Stats
	err := g.Wait()
	for _, part := range parts {
		stats.Processed += part.stats.Processed
		stats.Buys += part.stats.Buys
		stats.Sells += part.stats.Sells
		stats.Rejected += part.stats.Rejected
	}
	if err != nil {
		return stats, err
	}

	// Merge back in the order a sequential run would have registered the
	// symbols.
	slices.SortStableFunc(parts, func(a, b *partition) int { return cmp.Compare(a.firstBuy, b.firstBuy) })
	for _, part := range parts {
		if lots, held := part.proc.ledger.queues[part.symbol]; held {
			p.ledger.restore(part.symbol, lots)
		}
	}
	slices.SortStableFunc(parts, func(a, b *partition) int { return cmp.Compare(a.firstGain, b.firstGain) })
	for _, part := range parts {
		if gain, ok := part.proc.gains.Get(part.symbol); ok {
			p.gains.Record(part.symbol, gain)
		}
	}

	p.log.Info("transactions processed",
		zap.Int("processed", stats.Processed),
		zap.Int("buys", stats.Buys),
		zap.Int("sells", stats.Sells),
		zap.Int("rejected", stats.Rejected),
		zap.Int("symbols", len(parts)),
	)
	return stats, nil
}

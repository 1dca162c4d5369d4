package benchmarks

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/comalice/microfsm/loop"
)

// BenchmarkRunnerStep measures one queued event through a full tick:
// enqueue, drain, dispatch, poll.
func BenchmarkRunnerStep(b *testing.B) {
	m := GenRing(2)
	r := loop.New(m, loop.Config{})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := r.Trigger(tick); err != nil {
			b.Fatal(err)
		}
		r.Step()
	}
}

// BenchmarkRunnerThroughput measures contended enqueueing from 8
// workers against a continuously stepping drainer. Drops under
// backpressure are reported, not counted as failures.
func BenchmarkRunnerThroughput(b *testing.B) {
	m := GenRing(2)
	r := loop.New(m, loop.Config{QueueSize: 10000})

	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				r.Step()
			}
		}
	}()

	var dropped int64
	numWorkers := 8
	eventsPerWorker := b.N / numWorkers
	if eventsPerWorker == 0 {
		eventsPerWorker = 1
	}

	var wg sync.WaitGroup
	b.ReportAllocs()
	b.ResetTimer()
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < eventsPerWorker; i++ {
				if err := r.Trigger(tick); err != nil {
					atomic.AddInt64(&dropped, 1)
				}
			}
		}()
	}
	wg.Wait()
	b.StopTimer()
	close(stop)

	b.ReportMetric(float64(atomic.LoadInt64(&dropped)), "dropped")
}

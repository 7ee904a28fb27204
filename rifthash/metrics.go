package rifthash

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics mirror the teacher engine's hashrateMeter/totalHashes sampler
// (consensus/olivetumhash's Olivetumhash.hashrateSampler), reimplemented
// against prometheus/client_golang instead of an internal metrics
// registry so the numbers are scrapeable outside this process.
var (
	hashesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rifthash",
		Name:      "hashes_total",
		Help:      "Total number of hashimoto compute calls, light and full combined.",
	})

	dagBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rifthash",
		Name:      "dag_build_duration_seconds",
		Help:      "Wall-clock time spent materializing a full dataset.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s .. ~34min
	})

	dagOpenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rifthash",
		Name:      "dag_open_total",
		Help:      "Number of times an on-disk DAG file was opened and mapped, whether reused or just built.",
	})
)

// hashrateSampler mirrors the teacher's periodic delta sample: total
// is a monotonic counter bumped once per Compute call, and a background
// goroutine folds it into a per-second rate every second.
type hashrateSampler struct {
	total atomic.Uint64
	rate  atomic.Uint64
}

func newHashrateSampler() *hashrateSampler {
	s := &hashrateSampler{}
	go s.loop()
	return s
}

func (s *hashrateSampler) mark() {
	s.total.Add(1)
	hashesTotal.Inc()
}

func (s *hashrateSampler) loop() {
	var prev uint64
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for range ticker.C {
		cur := s.total.Load()
		if cur >= prev {
			s.rate.Store(cur - prev)
		}
		prev = cur
	}
}

// Rate returns the number of hashes computed in the most recently
// completed one-second sampling window.
func (s *hashrateSampler) Rate() uint64 { return s.rate.Load() }

var globalHashrate = newHashrateSampler()

// Hashrate returns the process-wide hashimoto rate in hashes/second,
// summed across every Light and Full handle's Compute calls.
func Hashrate() uint64 { return globalHashrate.Rate() }

package rifthash

import (
	"sync"

	"github.com/cryptorift/rifthash/internal/rlog"
)

// Engine retains a bounded number of epochs' Light caches and Full
// datasets. Once a bound is exceeded it evicts other epochs in map
// iteration order, which is not by age or distance, and never the epoch
// just requested. This mirrors the teacher's Olivetumhash
// struct (datasets map[uint64]*dataset, maxCachedDatasets) rather than
// leaving callers to manage Light/Full lifetimes by hand.
type Engine struct {
	config Config

	mu     sync.Mutex
	lights map[uint64]*Light
	fulls  map[uint64]*Full
}

// NewEngine builds an Engine from cfg, filling in the documented
// zero-value defaults for the in-memory retention counts.
func NewEngine(cfg Config) *Engine {
	if cfg.CachesInMem <= 0 {
		cfg.CachesInMem = 1
	}
	if cfg.DatasetsInMem <= 0 {
		cfg.DatasetsInMem = 1
	}
	return &Engine{
		config: cfg,
		lights: make(map[uint64]*Light),
		fulls:  make(map[uint64]*Full),
	}
}

// NewTester returns an Engine forced into ModeTest: every epoch resolves
// to the same small fixed cache/dataset size instead of the real growth
// curve, matching the corpus's NewTester helpers used to keep unit tests
// fast.
func NewTester() *Engine {
	return NewEngine(Config{PowMode: ModeTest, CachesInMem: 2, DatasetsInMem: 1})
}

func (e *Engine) epoch(blockNumber uint64) uint64 { return Epoch(blockNumber) }

// GetLight returns the Light handle for blockNumber's epoch, building and
// caching it on first use.
func (e *Engine) GetLight(blockNumber uint64) (*Light, error) {
	epoch := e.epoch(blockNumber)

	e.mu.Lock()
	defer e.mu.Unlock()

	if l, ok := e.lights[epoch]; ok {
		return l, nil
	}

	light, err := e.newLightForEpoch(blockNumber, epoch)
	if err != nil {
		return nil, err
	}
	e.lights[epoch] = light
	e.evictLights(epoch)
	return light, nil
}

func (e *Engine) newLightForEpoch(blockNumber, epoch uint64) (*Light, error) {
	if e.config.PowMode == ModeTest {
		var seed Hash
		seed[0] = byte(epoch)
		return newLightWithParams(blockNumber, seed, testCacheSize, testFullSize)
	}
	return NewLight(blockNumber)
}

// GetFull returns the Full handle for blockNumber's epoch, materializing
// or opening its DAG on first use. progress is forwarded only on the
// build path; an already-cached handle never invokes it.
func (e *Engine) GetFull(blockNumber uint64, progress ProgressFunc) (*Full, error) {
	epoch := e.epoch(blockNumber)

	e.mu.Lock()
	defer e.mu.Unlock()

	if f, ok := e.fulls[epoch]; ok {
		return f, nil
	}

	light, err := e.newLightForEpoch(blockNumber, epoch)
	if err != nil {
		return nil, err
	}
	full, err := NewFull(light, e.config.CacheDir, progress)
	if err != nil {
		return nil, err
	}
	e.fulls[epoch] = full
	e.evictFulls(epoch)
	return full, nil
}

// evictLights drops cached Light handles for epochs other than keep, in
// map iteration order, until no more than CachesInMem are held.
func (e *Engine) evictLights(keep uint64) {
	if len(e.lights) <= e.config.CachesInMem {
		return
	}
	for epoch := range e.lights {
		if epoch == keep {
			continue
		}
		delete(e.lights, epoch)
		rlog.Debug("Evicted cached light handle", "epoch", epoch)
		if len(e.lights) <= e.config.CachesInMem {
			return
		}
	}
}

func (e *Engine) evictFulls(keep uint64) {
	if len(e.fulls) <= e.config.DatasetsInMem {
		return
	}
	for epoch, full := range e.fulls {
		if epoch == keep {
			continue
		}
		delete(e.fulls, epoch)
		full.Close()
		rlog.Debug("Evicted cached full handle", "epoch", epoch)
		if len(e.fulls) <= e.config.DatasetsInMem {
			return
		}
	}
}

// Close releases every Full handle the Engine has mapped.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	var firstErr error
	for epoch, full := range e.fulls {
		if err := full.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(e.fulls, epoch)
	}
	return firstErr
}

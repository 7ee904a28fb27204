package rifthash

import (
	"fmt"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"

	"github.com/cryptorift/rifthash/internal/rlog"
)

// Full is a full-client handle: it owns a memory-mapped on-disk DAG and
// answers dataset lookups with a pointer-indexed read instead of
// recomputing items from the cache (§4.7). Read-only Compute calls are
// safe from multiple goroutines concurrently; Close is not.
type Full struct {
	blockNumber uint64
	fullSize    uint64

	mu     sync.Mutex
	file   *os.File
	mapped mmap.MMap
	closed bool
}

// NewFull materializes or opens the DAG for light's epoch and takes
// ownership of light's cache, freeing it once the dataset is ready. On
// failure light is left untouched and still owned by the caller (§4.7).
func NewFull(light *Light, dir string, progress ProgressFunc) (*Full, error) {
	if light == nil {
		return nil, fmt.Errorf("%w: nil light handle", ErrInvalid)
	}
	seed := SeedHash(light.blockNumber)

	var (
		file    *os.File
		mapping mmap.MMap
		err     error
	)
	if dir != "" {
		if file, mapping, err = openDAG(dagFilePath(dir, seed), light.fullSize); err == nil {
			rlog.Info("Loaded DAG from cache", "path", dagFilePath(dir, seed))
		}
	}
	if mapping == nil {
		if dir == "" {
			dir = os.TempDir()
		}
		file, mapping, err = buildDAG(dir, seed, light.cache, light.fullSize, progress)
		if err != nil {
			return nil, err
		}
	}

	// Cache ownership transfers to the full handle's lifetime only in the
	// sense that it is no longer needed: drop the reference so the
	// garbage collector can reclaim it once the caller drops light too.
	light.cache = nil

	return &Full{
		blockNumber: light.blockNumber,
		fullSize:    light.fullSize,
		file:        file,
		mapped:      mapping,
	}, nil
}

// dagBody returns the dataset bytes, excluding the 8-byte magic prefix.
func (f *Full) dagBody() []byte {
	return f.mapped[dagMagicSize:]
}

func (f *Full) lookup(index uint32) Node {
	var n Node
	copy(n[:], f.dagBody()[uint64(index)*HashBytes:(uint64(index)+1)*HashBytes])
	return n
}

// Compute runs hashimoto against the memory-mapped dataset (§4.7
// full_compute).
func (f *Full) Compute(headerHash Hash, nonce uint64) ReturnValue {
	globalHashrate.mark()
	return hashimoto(f.fullSize, headerHash, nonce, f.lookup)
}

// Dag returns a read-only view of the dataset bytes, excluding the magic
// prefix (§4.7 full_dag).
func (f *Full) Dag() []byte {
	return f.dagBody()
}

// DagSize returns the dataset size in bytes (§4.7 full_dag_size).
func (f *Full) DagSize() uint64 { return f.fullSize }

// Close unmaps the dataset and closes the backing file. Safe to call more
// than once.
func (f *Full) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	var err error
	if f.mapped != nil {
		err = f.mapped.Unmap()
	}
	if f.file != nil {
		if cerr := f.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

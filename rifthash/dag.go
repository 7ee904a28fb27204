package rifthash

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/edsrzf/mmap-go"
	"github.com/gofrs/flock"

	"github.com/cryptorift/rifthash/internal/rlog"
)

// dagMagicSize is RIFTHASH_DAG_MAGIC_NUM_SIZE: the width of the magic
// prefix every DAG file begins with (§3 invariants).
const dagMagicSize = 8

// ProgressFunc reports build progress as a percentage in [0,100].
// Returning non-zero aborts the build.
type ProgressFunc func(percent int) int

// dagFileName derives the on-disk DAG file name from the revision and
// seed hash, per §6: "full-R<REVISION>-<first 16 hex chars of seedhash>".
func dagFileName(seed Hash) string {
	return fmt.Sprintf("full-R%d-%s", Revision, hex.EncodeToString(seed[:])[:16])
}

func dagFilePath(dir string, seed Hash) string {
	return filepath.Join(dir, dagFileName(seed))
}

// validateDagHeader checks that f's length and magic match what a dataset
// of fullSize bytes should have produced (§3: "A DAG file is valid iff its
// magic matches and its length equals MAGIC_SIZE + full_size").
func validateDagHeader(f *os.File, fullSize uint64) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat dag file: %v", ErrIO, err)
	}
	if uint64(info.Size()) != dagMagicSize+fullSize {
		return fmt.Errorf("%w: dag file size %d, want %d", ErrIO, info.Size(), dagMagicSize+fullSize)
	}
	var magic [dagMagicSize]byte
	if _, err := f.ReadAt(magic[:], 0); err != nil {
		return fmt.Errorf("%w: read dag magic: %v", ErrIO, err)
	}
	if binary.LittleEndian.Uint64(magic[:]) != DAGMagic {
		return fmt.Errorf("%w: bad dag magic %x", ErrIO, magic)
	}
	return nil
}

// openDAG opens and mmaps an existing, validated DAG file read-only. The
// returned mapping covers the whole file, magic prefix included; Full.dagBody
// strips the prefix (§4.7 full_dag).
func openDAG(path string, fullSize uint64) (*os.File, mmap.MMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if err := validateDagHeader(f, fullSize); err != nil {
		f.Close()
		return nil, nil, err
	}
	m, err := mmap.MapRegion(f, int(dagMagicSize+fullSize), mmap.RDONLY, 0, 0)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%w: mmap dag file: %v", ErrIO, err)
	}
	dagOpenTotal.Inc()
	return f, m, nil
}

// buildDAG creates a new DAG file for the given cache/fullSize, filling it
// in parallel across buildWorkers() goroutines, each writing only its own
// disjoint set of item indices (§4.5/§5). The file is built under a temporary
// name and atomically renamed into place once the magic header has been
// written, so a crash or abort never leaves a partially-built file at the
// path the open policy would accept (§5 "Ordering guarantees").
//
// On abort (progress returning non-zero) the temp file is removed and
// ErrAborted is returned.
func buildDAG(dir string, seed Hash, cache []Node, fullSize uint64, progress ProgressFunc) (*os.File, mmap.MMap, error) {
	if fullSize == 0 || fullSize%HashBytes != 0 {
		return nil, nil, fmt.Errorf("%w: dataset size %d not a multiple of %d", ErrInvalid, fullSize, HashBytes)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("%w: mkdir cache dir: %v", ErrIO, err)
	}

	buildStart := time.Now()
	finalPath := dagFilePath(dir, seed)

	lock := flock.New(finalPath + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, nil, fmt.Errorf("%w: acquire dag build lock: %v", ErrIO, err)
	}
	defer lock.Unlock()

	// Another builder may have finished while we waited for the lock.
	if f, m, err := openDAG(finalPath, fullSize); err == nil {
		return f, m, nil
	}

	tmp, err := os.CreateTemp(dir, dagFileName(seed)+".tmp-*")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: create temp dag file: %v", ErrIO, err)
	}
	tmpPath := tmp.Name()
	abortCleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	total := dagMagicSize + fullSize
	if err := tmp.Truncate(int64(total)); err != nil {
		abortCleanup()
		return nil, nil, fmt.Errorf("%w: truncate temp dag file: %v", ErrIO, err)
	}

	m, err := mmap.MapRegion(tmp, int(total), mmap.RDWR, 0, 0)
	if err != nil {
		abortCleanup()
		return nil, nil, fmt.Errorf("%w: mmap temp dag file: %v", ErrIO, err)
	}

	itemCount := fullSize / HashBytes
	aborted, ioErr := fillDatasetParallel(m[dagMagicSize:], cache, itemCount, progress)
	if ioErr != nil {
		m.Unmap()
		abortCleanup()
		return nil, nil, ioErr
	}
	if aborted {
		m.Unmap()
		abortCleanup()
		return nil, nil, ErrAborted
	}

	// Item bytes are durable before the magic is written, and the file is
	// invisible at its real name until the rename below, so either
	// ordering guarantee from §5 holds.
	binary.LittleEndian.PutUint64(m[:dagMagicSize], DAGMagic)
	if err := m.Flush(); err != nil {
		m.Unmap()
		abortCleanup()
		return nil, nil, fmt.Errorf("%w: flush dag file: %v", ErrIO, err)
	}
	m.Unmap()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, nil, fmt.Errorf("%w: close temp dag file: %v", ErrIO, err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return nil, nil, fmt.Errorf("%w: rename dag file into place: %v", ErrIO, err)
	}

	dagBuildDuration.Observe(time.Since(buildStart).Seconds())
	rlog.Info("Generated DAG", "path", finalPath, "size", total)
	return openDAG(finalPath, fullSize)
}

// fillDatasetParallel shards [0,itemCount) across buildWorkers() goroutines
// by striding: worker w takes indices w, w+workers, w+2*workers, ... and
// writes each computed item directly into its 64-byte place in body (no two
// workers ever write the same bytes). Progress is aggregated through a single atomic counter and
// reported to the caller from one goroutine so callback invocations are
// serialized, per §9 "Callback semantics".
func fillDatasetParallel(body []byte, cache []Node, itemCount uint64, progress ProgressFunc) (aborted bool, err error) {
	workers := buildWorkers()
	if uint64(workers) > itemCount {
		workers = int(itemCount)
	}
	if workers < 1 {
		workers = 1
	}

	var completed atomic.Uint64
	abortCh := make(chan struct{})
	var abortOnce sync.Once
	signalAbort := func() { abortOnce.Do(func() { close(abortCh) }) }

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			for i := uint64(w); i < itemCount; i += uint64(workers) {
				select {
				case <-abortCh:
					return
				default:
				}
				item := calcDatasetItem(cache, uint32(i))
				copy(body[i*HashBytes:(i+1)*HashBytes], item[:])
				completed.Add(1)
			}
		}()
	}

	done := make(chan struct{})
	var progressErr error
	if progress != nil {
		go func() {
			defer close(done)
			last := -1
			for {
				c := completed.Load()
				percent := int(c * 100 / itemCount)
				if percent != last {
					last = percent
					if progress(percent) != 0 {
						signalAbort()
						return
					}
				}
				if c >= itemCount {
					return
				}
				time.Sleep(time.Millisecond)
			}
		}()
	} else {
		close(done)
	}

	wg.Wait()
	if progress != nil {
		<-done
	}
	select {
	case <-abortCh:
		aborted = true
	default:
	}
	return aborted, progressErr
}

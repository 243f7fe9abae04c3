package services

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"hifi/types"
)

// Snapshot pairs a Catalog with the structures derived from it. A
// snapshot never changes after it is published; request handlers
// resolve one at dispatch time and use it for the whole request.
type Snapshot struct {
	Catalog *Catalog
	Index   *Index
	Query   *QueryEngine
	BuiltAt time.Time
}

// ProgressNotifier receives rescan progress updates for broadcasting.
type ProgressNotifier interface {
	NotifyProgress(msg types.ProgressMessage)
}

// Library owns the published snapshot and is the only writer to it.
// Reads never lock: the snapshot lives behind an atomic pointer and a
// rescan builds a whole new Catalog+Index off to the side before one
// atomic publish. At most one scan runs at a time; a rescan requested
// while one is in flight is rejected.
type Library struct {
	root   string
	reader TagReader

	snap     atomic.Pointer[Snapshot]
	scanning atomic.Bool

	// Only the active scan goroutine touches these; the scanning flag
	// serializes access.
	nextSeq int64
	known   map[string]int64 // id -> add-order sequence, spans rescans

	mu       sync.RWMutex
	lastJob  *types.ScanJob
	notifier ProgressNotifier
}

// NewLibrary creates a library rooted at the given directory
func NewLibrary(root string, reader TagReader) *Library {
	return &Library{
		root:   root,
		reader: reader,
		known:  make(map[string]int64),
	}
}

// Root returns the configured library root directory
func (l *Library) Root() string {
	return l.root
}

// SetNotifier sets the receiver for rescan progress updates
func (l *Library) SetNotifier(n ProgressNotifier) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notifier = n
}

// Snapshot returns the currently published catalog/index pair
func (l *Library) Snapshot() *Snapshot {
	return l.snap.Load()
}

// sequence hands out add-order numbers. A file seen in an earlier scan
// keeps its original number, so whatsnew tracks true insertion order.
func (l *Library) sequence(id string) int64 {
	if s, ok := l.known[id]; ok {
		return s
	}
	l.nextSeq++
	l.known[id] = l.nextSeq
	return l.nextSeq
}

// Scan builds and publishes a snapshot synchronously. Used for the
// startup scan, where an unreadable root is fatal.
func (l *Library) Scan(reporter ScanReporter) (ScanReport, error) {
	if !l.scanning.CompareAndSwap(false, true) {
		return ScanReport{}, fmt.Errorf("scan already in progress")
	}
	defer l.scanning.Store(false)

	return l.buildAndPublish(reporter)
}

func (l *Library) buildAndPublish(reporter ScanReporter) (ScanReport, error) {
	catalog, report, err := BuildCatalog(l.root, l.reader, l.sequence, reporter)
	if err != nil {
		return report, err
	}

	index := BuildIndex(catalog)
	l.snap.Store(&Snapshot{
		Catalog: catalog,
		Index:   index,
		Query:   NewQueryEngine(catalog, index),
		BuiltAt: time.Now(),
	})
	return report, nil
}

// Rescan starts a background rebuild and reports whether it was
// started. It returns false when a scan is already in flight.
func (l *Library) Rescan() (*types.ScanJob, bool) {
	if !l.scanning.CompareAndSwap(false, true) {
		return nil, false
	}

	job := &types.ScanJob{
		ID:        uuid.New().String(),
		Status:    types.ScanStatusRunning,
		StartedAt: time.Now(),
	}
	l.setJob(job)
	accepted := *job

	go func() {
		defer l.scanning.Store(false)

		report, err := l.buildAndPublish(&jobReporter{library: l, jobID: job.ID})

		now := time.Now()
		done := types.ScanJob{
			ID:          job.ID,
			Scanned:     report.Scanned,
			Skipped:     report.Skipped,
			StartedAt:   job.StartedAt,
			CompletedAt: &now,
		}

		if err != nil {
			done.Status = types.ScanStatusFailed
			done.Error = err.Error()
			log.Printf("Rescan %s failed: %v", job.ID, err)
			l.notify(types.ProgressMessage{
				JobID:     job.ID,
				Type:      "error",
				Scanned:   report.Scanned,
				Skipped:   report.Skipped,
				Message:   err.Error(),
				Timestamp: now,
			})
		} else {
			done.Status = types.ScanStatusCompleted
			log.Printf("Rescan %s completed: %d tracks indexed, %d skipped", job.ID, report.Scanned, report.Skipped)
			l.notify(types.ProgressMessage{
				JobID:     job.ID,
				Type:      "complete",
				Scanned:   report.Scanned,
				Skipped:   report.Skipped,
				Message:   "rescan completed",
				Timestamp: now,
			})
		}
		l.setJob(&done)
	}()

	return &accepted, true
}

// LastJob returns a copy of the most recent rescan job, if any
func (l *Library) LastJob() *types.ScanJob {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.lastJob == nil {
		return nil
	}
	job := *l.lastJob
	return &job
}

func (l *Library) setJob(job *types.ScanJob) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastJob = job
}

func (l *Library) notify(msg types.ProgressMessage) {
	l.mu.RLock()
	n := l.notifier
	l.mu.RUnlock()
	if n != nil {
		n.NotifyProgress(msg)
	}
}

// jobReporter forwards per-file scan progress to the notifier and keeps
// the job counters current.
type jobReporter struct {
	library *Library
	jobID   string
}

func (r *jobReporter) FileIndexed(path string, scanned, skipped int) {
	r.library.mu.Lock()
	if r.library.lastJob != nil && r.library.lastJob.ID == r.jobID {
		r.library.lastJob.Scanned = scanned
		r.library.lastJob.Skipped = skipped
	}
	r.library.mu.Unlock()

	r.library.notify(types.ProgressMessage{
		JobID:       r.jobID,
		Type:        "progress",
		Scanned:     scanned,
		Skipped:     skipped,
		CurrentFile: path,
		Timestamp:   time.Now(),
	})
}

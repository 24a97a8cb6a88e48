package upload

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/draftpost/internal/core/domain"
	"github.com/custodia-labs/draftpost/internal/core/ports/driven"
	"github.com/custodia-labs/draftpost/internal/logger"
)

// Ensure Queue implements the interface.
var _ driven.UploadGateway = (*Queue)(nil)

// JobState is where a job is in the queue.
type JobState string

// Job states.
const (
	JobQueued    JobState = "queued"
	JobUploading JobState = "uploading"
)

// Job is a single accepted upload.
type Job struct {
	ID       string
	Request  domain.UploadRequest
	State    JobState
	QueuedAt time.Time
}

// Queue is an in-process upload gateway. Jobs are keyed by document ID, so a
// document is never queued twice.
type Queue struct {
	transport driven.UploadTransport
	drafts    driven.DraftStore // optional; marks drafts synced after upload
	limiter   *rate.Limiter

	mu      sync.Mutex
	jobs    map[string]*Job // by document ID
	pending []string        // document IDs in submission order
	closed  bool
	idle    chan struct{} // closed while jobs is empty
	wake    chan struct{}

	cancel context.CancelFunc
	done   chan struct{}
}

// NewQueue creates a queue that hands at most ratePerSecond jobs per second
// to transport. A non-positive rate means unlimited. drafts may be nil.
func NewQueue(transport driven.UploadTransport, drafts driven.DraftStore, ratePerSecond int) *Queue {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}

	idle := make(chan struct{})
	close(idle)

	return &Queue{
		transport: transport,
		drafts:    drafts,
		limiter:   rate.NewLimiter(limit, 1),
		jobs:      make(map[string]*Job),
		idle:      idle,
		wake:      make(chan struct{}, 1),
	}
}

// Start launches the worker. It returns immediately; the worker runs until
// ctx is done or the queue is closed. Calling Start twice is a no-op.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.done != nil {
		return
	}

	ctx, q.cancel = context.WithCancel(ctx)
	q.done = make(chan struct{})
	go q.run(ctx, q.done)
}

// IsQueuedOrUploading reports whether the document has a job in the queue.
func (q *Queue) IsQueuedOrUploading(_ context.Context, doc domain.Document) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.jobs[doc.ID]
	return ok, nil
}

// SubmitUpload enqueues the document. It returns domain.ErrAlreadyQueued if
// the document already has a job and domain.ErrGatewayClosed after Close or
// Drain.
func (q *Queue) SubmitUpload(_ context.Context, req domain.UploadRequest) error {
	if req.Document.ID == "" {
		return fmt.Errorf("%w: document has no ID", domain.ErrInvalidInput)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return domain.ErrGatewayClosed
	}
	if _, ok := q.jobs[req.Document.ID]; ok {
		return domain.ErrAlreadyQueued
	}

	if len(q.jobs) == 0 {
		q.idle = make(chan struct{})
	}
	job := &Job{
		ID:       uuid.New().String(),
		Request:  req,
		State:    JobQueued,
		QueuedAt: time.Now(),
	}
	q.jobs[req.Document.ID] = job
	q.pending = append(q.pending, req.Document.ID)
	logger.Debug("upload: queued %s as job %s", req.Document.ID, job.ID)

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return nil
}

// Snapshot returns a copy of every job, oldest first.
func (q *Queue) Snapshot() []Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	jobs := make([]Job, 0, len(q.jobs))
	for _, job := range q.jobs {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].QueuedAt.Before(jobs[j].QueuedAt)
	})
	return jobs
}

// Len returns the number of queued and uploading jobs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Drain stops accepting submissions and waits for every accepted job to
// finish, then stops the worker. If ctx is done first the remaining jobs are
// abandoned.
func (q *Queue) Drain(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	idle := q.idle
	q.mu.Unlock()

	var err error
	select {
	case <-idle:
	case <-ctx.Done():
		err = ctx.Err()
	}
	q.Close()
	return err
}

// Close stops accepting submissions and stops the worker without waiting
// for queued jobs. An upload in progress is cancelled.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	cancel, done := q.cancel, q.done
	q.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// run is the worker loop.
func (q *Queue) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	for {
		job := q.next()
		if job == nil {
			select {
			case <-ctx.Done():
				return
			case <-q.wake:
				continue
			}
		}

		if err := q.limiter.Wait(ctx); err != nil {
			return
		}
		q.process(ctx, job)
	}
}

// next marks the oldest queued job as uploading and returns a copy of it.
func (q *Queue) next() *Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.pending) > 0 {
		id := q.pending[0]
		q.pending = q.pending[1:]
		job, ok := q.jobs[id]
		if !ok {
			continue
		}
		job.State = JobUploading
		cp := *job
		return &cp
	}
	return nil
}

// process uploads one job and removes it from the queue.
func (q *Queue) process(ctx context.Context, job *Job) {
	doc := job.Request.Document
	defer q.finish(doc.ID)

	remoteID, err := q.transport.Upload(ctx, job.Request)
	if err != nil {
		logger.Warn("upload: %s (site %s) failed: %v", doc.ID, doc.SiteID, err)
		return
	}
	logger.Info("upload: %s uploaded as %s", doc.ID, remoteID)

	if q.drafts == nil {
		return
	}
	// An edit saved during the upload bumps the revision and stays local.
	if err := q.drafts.MarkSynced(ctx, doc.ID, remoteID, doc.Revision); err != nil {
		logger.Warn("upload: mark %s synced: %v", doc.ID, err)
	}
}

func (q *Queue) finish(docID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.jobs, docID)
	if len(q.jobs) == 0 {
		close(q.idle)
	}
}

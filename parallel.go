package huffman

import (
	"container/heap"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"cloudeng.io/errors"
)

// BatchResult is the outcome of compressing a single file in a Batch.
type BatchResult struct {
	Order    uint64 // Order in which the file was added, starting at 1.
	Input    string
	Output   string
	Stats    Stats
	Err      error
	Duration time.Duration
}

// Batch compresses multiple files concurrently, each file being compressed
// independently by CompressFile. Results are reported, in the order that
// files were added, to the function supplied to NewBatch and by Finish.
type Batch struct {
	ctx     context.Context
	opts    []Option
	workWg  sync.WaitGroup
	doneWg  sync.WaitGroup
	workCh  chan *job
	doneCh  chan *job
	order   uint64
	heap    *jobHeap
	onDone  func(BatchResult)
	results []BatchResult
	errs    errors.M
}

type job struct {
	BatchResult
}

// NewBatch creates a new Batch with the specified concurrency. onDone,
// if not nil, is called for each file in the order the files were added.
// The options are passed to every call to CompressFile; any ProgressFunc
// must therefore be safe for concurrent use.
func NewBatch(ctx context.Context, concurrency int, onDone func(BatchResult), opts ...Option) *Batch {
	if concurrency < 1 {
		concurrency = 1
	}
	b := &Batch{
		ctx:    ctx,
		opts:   opts,
		workCh: make(chan *job, concurrency),
		doneCh: make(chan *job, concurrency),
		heap:   &jobHeap{},
		onDone: onDone,
	}
	heap.Init(b.heap)
	b.workWg.Add(concurrency)
	b.doneWg.Add(1)
	for i := 0; i < concurrency; i++ {
		go func() {
			b.worker()
			b.workWg.Done()
		}()
	}
	go func() {
		b.assemble()
		b.doneWg.Done()
	}()
	return b
}

func (b *Batch) worker() {
	for j := range b.workCh {
		if err := b.ctx.Err(); err != nil {
			j.Err = err
			b.doneCh <- j
			continue
		}
		start := time.Now()
		j.Stats, j.Err = CompressFile(b.ctx, j.Input, j.Output, b.opts...)
		j.Duration = time.Since(start)
		b.doneCh <- j
	}
}

// Add adds a file to be compressed. It must not be called after Finish.
func (b *Batch) Add(input, output string) {
	order := atomic.AddUint64(&b.order, 1)
	b.workCh <- &job{BatchResult{Order: order, Input: input, Output: output}}
}

// Finish waits for all of the files added to the batch to be compressed
// and returns their results, in order, and any errors encountered.
func (b *Batch) Finish() ([]BatchResult, error) {
	close(b.workCh)
	b.workWg.Wait()
	close(b.doneCh)
	b.doneWg.Wait()
	return b.results, b.errs.Err()
}

func (b *Batch) assemble() {
	expected := uint64(1)
	for j := range b.doneCh {
		heap.Push(b.heap, j)
		for len(*b.heap) > 0 {
			min := (*b.heap)[0]
			if min.Order != expected {
				break
			}
			heap.Remove(b.heap, 0)
			b.results = append(b.results, min.BatchResult)
			b.errs.Append(min.Err)
			if b.onDone != nil {
				b.onDone(min.BatchResult)
			}
			expected++
		}
	}
}

type jobHeap []*job

func (h jobHeap) Len() int           { return len(h) }
func (h jobHeap) Less(i, j int) bool { return h[i].Order < h[j].Order }
func (h jobHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *jobHeap) Push(x interface{}) {
	// Push and Pop use pointer receivers because they modify the slice's length,
	// not just its contents.
	*h = append(*h, x.(*job))
}

func (h *jobHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

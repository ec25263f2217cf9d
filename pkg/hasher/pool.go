package hasher

import (
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/logger"
)

type HashTask struct {
	Seq  int
	Path string
	Size int64
}

type HashResult struct {
	Seq    int
	Path   string
	Digest string
	Size   int64
	Error  error
}

// HashPool fans full-digest work out over a bounded goroutine pool. Tasks
// carry their walk sequence number so callers can restore traversal order
// after the unordered results are collected.
type HashPool struct {
	fs      afero.Fs
	workers int
	tasks   chan HashTask
	results chan HashResult
	wg      sync.WaitGroup
	pool    *ants.Pool
}

func NewHashPool(fs afero.Fs, workers int) *HashPool {
	if workers < 1 {
		workers = 1
	}
	logger.Get().Debug().Msgf("creating hash pool with %d workers", workers)
	return &HashPool{
		fs:      fs,
		workers: workers,
		tasks:   make(chan HashTask, internal.DefaultBufferSize),
		results: make(chan HashResult, internal.DefaultBufferSize),
	}
}

func (p *HashPool) Start() error {
	var err error
	p.pool, err = ants.NewPool(p.workers)
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to create goroutine pool")
		return err
	}

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		if err := p.pool.Submit(p.worker); err != nil {
			p.wg.Done()
			return err
		}
	}
	return nil
}

func (p *HashPool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		digest, err := Sum(p.fs, task.Path)
		p.results <- HashResult{
			Seq:    task.Seq,
			Path:   task.Path,
			Digest: digest,
			Size:   task.Size,
			Error:  err,
		}
	}
}

func (p *HashPool) AddTask(task HashTask) {
	p.tasks <- task
}

func (p *HashPool) Results() <-chan HashResult {
	return p.results
}

// Finish closes the task channel and closes the result channel once every
// in-flight task has produced a result.
func (p *HashPool) Finish() {
	close(p.tasks)
	go func() {
		p.wg.Wait()
		if p.pool != nil {
			p.pool.Release()
		}
		close(p.results)
	}()
}

package fetch

import (
	"context"
	"sync"

	"github.com/zhengshuai-xiao/StorSync/internal"
)

// DownloadTask is one (source key, destination path, overwrite) tuple. The
// task list of a batch is built in full before any worker starts and is
// never grown afterwards. Each task is consumed exactly once and never
// retried.
type DownloadTask struct {
	SourceKey string
	DestPath  string
	Overwrite bool
}

// Summary tallies how a batch ended per object. Failures are already
// logged when the summary is returned; the scheduler never aborts the
// remaining queue because one task failed.
type Summary struct {
	Completed int
	Skipped   int
	Failed    int
}

func (s Summary) Total() int { return s.Completed + s.Skipped + s.Failed }

// runTasks fans the task list out to a fixed pool of `concurrency` workers
// (minimum 1). fetch performs exactly one transfer attempt for one task.
// Task completion order is unspecified.
func runTasks(ctx context.Context, tasks []DownloadTask, concurrency int, fetch func(context.Context, DownloadTask) error) Summary {
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(tasks) {
		concurrency = len(tasks)
	}

	var mu sync.Mutex
	var summary Summary
	queue := make(chan DownloadTask)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				outcome := runTask(ctx, task, fetch)
				mu.Lock()
				switch outcome {
				case taskSkipped:
					summary.Skipped++
				case taskCompleted:
					summary.Completed++
				default:
					summary.Failed++
				}
				mu.Unlock()
			}
		}()
	}

	for _, task := range tasks {
		queue <- task
	}
	close(queue)
	wg.Wait()

	return summary
}

type taskOutcome int

const (
	taskFailed taskOutcome = iota
	taskSkipped
	taskCompleted
)

func runTask(ctx context.Context, task DownloadTask, fetch func(context.Context, DownloadTask) error) taskOutcome {
	if !task.Overwrite && internal.Exists(task.DestPath) {
		logger.Infof("%s already EXISTS - skipped", task.DestPath)
		return taskSkipped
	}

	if err := ctx.Err(); err != nil {
		logger.Errorf("Skipping fetch of %s: %v", task.SourceKey, err)
		return taskFailed
	}

	if err := fetch(ctx, task); err != nil {
		logger.Errorf("Failed to download %s to %s: %v", task.SourceKey, task.DestPath, err)
		return taskFailed
	}

	logger.Debugf("Downloaded %s to %s", task.SourceKey, task.DestPath)
	return taskCompleted
}

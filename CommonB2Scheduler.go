package box2d

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

/// Task interface
/// This is prototype for a Box2D task. Your task system is expected to invoke the Box2D task with these arguments.
/// The task spans a range of the parallel-for: [startIndex, endIndex)
/// The worker index must correctly identify each worker in the user thread pool, expected in [0, workerCount).
/// A worker must only exist on only one thread at a time and is analogous to the thread index.
/// The task context is the context pointer sent from Box2D when it is enqueued.
type B2TaskCallback func(startIndex int, endIndex int, workerIndex int, context any)

/// Opaque handle returned by EnqueueTask. A nil handle means the task already ran
/// and FinishTask does not need to be called.
type B2TaskHandle any

/// The scheduling seam used by the world to run collide, solver and tree
/// rebuild work. No task may block on another task; the only
/// synchronization point is FinishTask.
/// Worker indices must lie in [0, WorkerCount()) when the scheduler has a
/// WorkerCount() int method, otherwise in [0, B2_maxWorkers).
type B2TaskScheduler interface {
	/// Split [0, itemCount) into ranges of at least minRange items and run
	/// the task over them.
	EnqueueTask(task B2TaskCallback, itemCount int, minRange int, context any) B2TaskHandle

	/// Block until every range of an enqueued task has completed.
	FinishTask(handle B2TaskHandle)
}

///////////////////////////////////////////////////////////////////////////////

/// Runs every task inline on the calling goroutine as worker 0.
type B2SerialScheduler struct{}

func MakeB2SerialScheduler() B2SerialScheduler {
	return B2SerialScheduler{}
}

func (B2SerialScheduler) EnqueueTask(task B2TaskCallback, itemCount int, minRange int, context any) B2TaskHandle {
	if itemCount > 0 {
		task(0, itemCount, 0, context)
	}
	return nil
}

func (B2SerialScheduler) FinishTask(handle B2TaskHandle) {}

///////////////////////////////////////////////////////////////////////////////

/// Runs the ranges of a task on goroutines, bounded by the worker count.
/// A panic inside a range is captured and raised again from FinishTask on
/// the goroutine that owns the step.
type B2WorkerScheduler struct {
	workerCount int
}

type b2WorkerTask struct {
	group *errgroup.Group
}

func NewB2WorkerScheduler(workerCount int) *B2WorkerScheduler {
	return &B2WorkerScheduler{
		workerCount: B2Clamp(workerCount, 1, B2_maxWorkers),
	}
}

func (scheduler *B2WorkerScheduler) WorkerCount() int {
	return scheduler.workerCount
}

func (scheduler *B2WorkerScheduler) EnqueueTask(task B2TaskCallback, itemCount int, minRange int, context any) B2TaskHandle {
	if itemCount <= 0 {
		return nil
	}

	// A single range still runs on its own goroutine so a task the caller does
	// not finish right away overlaps the caller's work.
	minRange = B2Max(minRange, 1)
	rangeCount := B2Clamp((itemCount+minRange-1)/minRange, 1, scheduler.workerCount)

	group := new(errgroup.Group)
	group.SetLimit(rangeCount)

	blockSize := itemCount / rangeCount
	remainder := itemCount % rangeCount
	startIndex := 0
	for workerIndex := 0; workerIndex < rangeCount; workerIndex++ {
		count := blockSize
		if workerIndex < remainder {
			count++
		}

		start := startIndex
		end := startIndex + count
		worker := workerIndex
		group.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("box2d: task range [%d, %d) on worker %d: %v", start, end, worker, r)
				}
			}()
			task(start, end, worker, context)
			return nil
		})

		startIndex = end
	}

	B2Assert(startIndex == itemCount)
	return &b2WorkerTask{group: group}
}

func (scheduler *B2WorkerScheduler) FinishTask(handle B2TaskHandle) {
	if handle == nil {
		return
	}

	if err := handle.(*b2WorkerTask).group.Wait(); err != nil {
		panic(err)
	}
}

package box2d

import (
	"strings"
	"testing"
)

// Holds every task until FinishTask so the test can see which stages ran while
// a task was pending.
type deferredScheduler struct {
	log []string
}

type deferredTask struct {
	task      B2TaskCallback
	itemCount int
	context   any
}

func deferredTaskName(context any) string {
	if _, ok := context.(*b2World); ok {
		return "rebuild"
	}
	return "stage"
}

func (s *deferredScheduler) EnqueueTask(task B2TaskCallback, itemCount int, minRange int, context any) B2TaskHandle {
	s.log = append(s.log, "enqueue "+deferredTaskName(context))
	return &deferredTask{task: task, itemCount: itemCount, context: context}
}

func (s *deferredScheduler) FinishTask(handle B2TaskHandle) {
	pending := handle.(*deferredTask)
	if pending.itemCount > 0 {
		pending.task(0, pending.itemCount, 0, pending.context)
	}
	s.log = append(s.log, "finish "+deferredTaskName(pending.context))
}

func TestTreeRebuildOverlapsSolver(t *testing.T) {
	scheduler := &deferredScheduler{}

	def := B2DefaultWorldDef()
	def.Scheduler = scheduler
	worldId, err := B2CreateWorld(&def)
	if err != nil {
		t.Fatalf("create world: %v", err)
	}
	defer B2DestroyWorld(worldId)

	createPyramid(t, worldId, 3)
	world := b2GetWorldFromId(worldId)

	// Fewer steps than the time to sleep so every step has awake bodies
	for step := 0; step < 20; step++ {
		scheduler.log = scheduler.log[:0]

		if err := B2World_Step(worldId, 1.0/60.0, 4, 1); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}

		enqueue, finish := -1, -1
		for i, entry := range scheduler.log {
			switch entry {
			case "enqueue rebuild":
				if enqueue != -1 {
					t.Fatalf("step %d: rebuild enqueued twice: %s", step, strings.Join(scheduler.log, ", "))
				}
				enqueue = i
			case "finish rebuild":
				if finish != -1 {
					t.Fatalf("step %d: rebuild finished twice: %s", step, strings.Join(scheduler.log, ", "))
				}
				finish = i
			}
		}

		if enqueue == -1 || finish < enqueue {
			t.Fatalf("step %d: rebuild enqueue %d, finish %d", step, enqueue, finish)
		}

		overlapped := 0
		for _, entry := range scheduler.log[enqueue+1 : finish] {
			if entry == "finish stage" {
				overlapped++
			}
		}
		if overlapped == 0 {
			t.Fatalf("step %d: no stage ran while the rebuild was pending: %s", step, strings.Join(scheduler.log, ", "))
		}

		if world.treeTask != nil {
			t.Fatalf("step %d: rebuild still pending after the step", step)
		}

		world.broadPhase.Validate()
	}
}

func TestSplitCandidateTieBreak(t *testing.T) {
	def := B2DefaultWorldDef()
	def.WorkerCount = 4
	worldId, err := B2CreateWorld(&def)
	if err != nil {
		t.Fatalf("create world: %v", err)
	}
	defer B2DestroyWorld(worldId)

	world := b2GetWorldFromId(worldId)
	if len(world.taskContexts) != 4 {
		t.Fatalf("expected 4 task contexts, got %d", len(world.taskContexts))
	}

	set := func(candidates ...[2]float64) {
		for i := range world.taskContexts {
			world.taskContexts[i].splitIslandId = B2_nullIndex
			world.taskContexts[i].splitSleepTime = 0.0
		}
		for i, candidate := range candidates {
			world.taskContexts[i].splitIslandId = int32(candidate[0])
			world.taskContexts[i].splitSleepTime = candidate[1]
		}
	}

	// Equal sleep times resolve to the lowest island id in any context order
	set([2]float64{5, 1.0}, [2]float64{3, 1.0}, [2]float64{7, 0.5})
	if id := b2SelectSplitCandidate(world); id != 3 {
		t.Fatalf("selected island %d, expected 3", id)
	}

	set([2]float64{3, 1.0}, [2]float64{5, 1.0})
	if id := b2SelectSplitCandidate(world); id != 3 {
		t.Fatalf("selected island %d, expected 3", id)
	}

	// The sleepiest island wins over a lower id
	set([2]float64{3, 1.0}, [2]float64{5, 1.0}, [2]float64{7, 0.5}, [2]float64{9, 2.0})
	if id := b2SelectSplitCandidate(world); id != 9 {
		t.Fatalf("selected island %d, expected 9", id)
	}

	set()
	if id := b2SelectSplitCandidate(world); id != B2_nullIndex {
		t.Fatalf("selected island %d without candidates", id)
	}
}

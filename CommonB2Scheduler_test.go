package box2d_test

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	box2d "github.com/Alexander-r/box2d.go/v3"
)

func TestWorkerSchedulerCoversRange(t *testing.T) {
	scheduler := box2d.NewB2WorkerScheduler(4)

	var visits [1000]int32
	var maxWorker int32
	task := func(startIndex int, endIndex int, workerIndex int, context any) {
		for i := startIndex; i < endIndex; i++ {
			atomic.AddInt32(&visits[i], 1)
		}
		for {
			current := atomic.LoadInt32(&maxWorker)
			if int32(workerIndex) <= current || atomic.CompareAndSwapInt32(&maxWorker, current, int32(workerIndex)) {
				break
			}
		}
	}

	handle := scheduler.EnqueueTask(task, len(visits), 16, nil)
	scheduler.FinishTask(handle)

	for i, count := range visits {
		if count != 1 {
			t.Fatalf("item %d visited %d times", i, count)
		}
	}

	if int(maxWorker) >= scheduler.WorkerCount() {
		t.Fatalf("worker index %d out of range", maxWorker)
	}
}

// Builds a pyramid, simulates it and prints the final body positions.
func simulatePyramid(t *testing.T, workerCount int) string {
	t.Helper()

	def := box2d.B2DefaultWorldDef()
	def.WorkerCount = workerCount
	return simulatePyramidWithDef(t, def)
}

func simulatePyramidWithDef(t *testing.T, def box2d.B2WorldDef) string {
	t.Helper()

	worldId := createTestWorld(t, def)
	createGround(t, worldId)

	shapeDef := box2d.B2DefaultShapeDef()
	box := box2d.B2MakeSquare(0.5)

	const baseCount = 12
	var bodyIds []box2d.B2BodyId
	for row := 0; row < baseCount; row++ {
		for column := 0; column < baseCount-row; column++ {
			bodyDef := box2d.B2DefaultBodyDef()
			bodyDef.Type = box2d.B2BodyType.E_dynamicBody
			bodyDef.Position = box2d.MakeB2Vec2(float64(column)+0.5*float64(row)-0.5*float64(baseCount-1), 1.5+float64(row))

			bodyId, err := box2d.B2CreateBody(worldId, &bodyDef)
			if err != nil {
				t.Fatalf("create body: %v", err)
			}
			if _, err := box2d.B2CreatePolygonShape(bodyId, &shapeDef, &box); err != nil {
				t.Fatalf("create shape: %v", err)
			}
			bodyIds = append(bodyIds, bodyId)
		}
	}

	stepWorld(t, worldId, 120)

	var sb strings.Builder
	for _, bodyId := range bodyIds {
		p := box2d.B2Body_GetPosition(bodyId)
		fmt.Fprintf(&sb, "(%.6f, %.6f)\n", p.X, p.Y)
	}
	return sb.String()
}

func TestSchedulerDeterminism(t *testing.T) {
	serial := simulatePyramid(t, 1)
	parallel := simulatePyramid(t, 4)

	checkMatch(t, serial, parallel)
}

// Runs tasks inline but reports the highest worker index a custom scheduler
// without a worker count may use.
type highWorkerScheduler struct{}

func (highWorkerScheduler) EnqueueTask(task box2d.B2TaskCallback, itemCount int, minRange int, context any) box2d.B2TaskHandle {
	if itemCount > 0 {
		task(0, itemCount, box2d.B2_maxWorkers-1, context)
	}
	return nil
}

func (highWorkerScheduler) FinishTask(handle box2d.B2TaskHandle) {}

func TestCustomSchedulerWorkerIndex(t *testing.T) {
	serial := simulatePyramid(t, 1)

	def := box2d.B2DefaultWorldDef()
	def.Scheduler = highWorkerScheduler{}
	custom := simulatePyramidWithDef(t, def)

	checkMatch(t, serial, custom)
}

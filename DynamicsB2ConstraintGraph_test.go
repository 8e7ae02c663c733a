package box2d

import (
	"testing"
)

func createPyramid(t *testing.T, worldId B2WorldId, baseCount int) []B2BodyId {
	t.Helper()

	groundDef := B2DefaultBodyDef()
	groundId, err := B2CreateBody(worldId, &groundDef)
	if err != nil {
		t.Fatalf("create ground: %v", err)
	}

	shapeDef := B2DefaultShapeDef()
	groundBox := B2MakeOffsetBox(20.0, 1.0, MakeB2Vec2(0.0, -1.0), 0.0)
	if _, err := B2CreatePolygonShape(groundId, &shapeDef, &groundBox); err != nil {
		t.Fatalf("create ground shape: %v", err)
	}

	var bodies []B2BodyId
	box := B2MakeSquare(0.5)
	for row := 0; row < baseCount; row++ {
		for column := 0; column < baseCount-row; column++ {
			bodyDef := B2DefaultBodyDef()
			bodyDef.Type = B2BodyType.E_dynamicBody
			bodyDef.Position = MakeB2Vec2(float64(column)-0.5*float64(baseCount-row)+0.5, 0.5+float64(row))

			bodyId, err := B2CreateBody(worldId, &bodyDef)
			if err != nil {
				t.Fatalf("create body: %v", err)
			}

			if _, err := B2CreatePolygonShape(bodyId, &shapeDef, &box); err != nil {
				t.Fatalf("create shape: %v", err)
			}
			bodies = append(bodies, bodyId)
		}
	}

	return bodies
}

func checkColoring(t *testing.T, world *b2World) {
	t.Helper()

	for colorIndex := 0; colorIndex < B2_overflowIndex; colorIndex++ {
		color := &world.constraintGraph.Colors[colorIndex]
		used := make(map[int32]bool)

		mark := func(bodyId int32) {
			if world.bodies.Get(bodyId).Type == B2BodyType.E_staticBody {
				return
			}

			if used[bodyId] {
				t.Fatalf("color %d uses body %d twice", colorIndex, bodyId)
			}
			used[bodyId] = true

			if color.BodySet.GetBit(int(bodyId)) == false {
				t.Fatalf("color %d is missing body %d in its body set", colorIndex, bodyId)
			}
		}

		for localIndex, contactId := range color.ContactIds {
			contact := world.contacts.Get(contactId)
			if contact.ColorIndex != int32(colorIndex) || contact.LocalIndex != int32(localIndex) {
				t.Fatalf("contact %d has color %d/%d, stored in %d/%d", contactId, contact.ColorIndex, contact.LocalIndex, colorIndex, localIndex)
			}
			mark(contact.Edges[0].BodyId)
			mark(contact.Edges[1].BodyId)
		}

		for _, jointId := range color.JointIds {
			joint := world.joints.Get(jointId)
			mark(joint.Edges[0].BodyId)
			mark(joint.Edges[1].BodyId)
		}
	}
}

func TestGraphColoring(t *testing.T) {
	B2_validate = true
	defer func() { B2_validate = false }()

	def := B2DefaultWorldDef()
	worldId, err := B2CreateWorld(&def)
	if err != nil {
		t.Fatalf("create world: %v", err)
	}
	defer B2DestroyWorld(worldId)

	createPyramid(t, worldId, 10)
	world := b2GetWorldFromId(worldId)

	for i := 0; i < 30; i++ {
		if err := B2World_Step(worldId, 1.0/60.0, 4, 1); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		checkColoring(t, world)
	}

	counters := B2World_GetCounters(worldId)
	colored := 0
	for _, count := range counters.ColorCounts {
		colored += count
	}

	if colored == 0 {
		t.Fatalf("no constraints in the graph")
	}

	if counters.ColorCounts[B2_overflowIndex] != 0 {
		t.Fatalf("pyramid overflowed the graph: %v", counters.ColorCounts)
	}
}

func TestGraphOverflow(t *testing.T) {
	B2_validate = true
	B2_forceOverflow = true
	defer func() {
		B2_validate = false
		B2_forceOverflow = false
	}()

	def := B2DefaultWorldDef()
	worldId, err := B2CreateWorld(&def)
	if err != nil {
		t.Fatalf("create world: %v", err)
	}
	defer B2DestroyWorld(worldId)

	createPyramid(t, worldId, 4)

	for i := 0; i < 10; i++ {
		if err := B2World_Step(worldId, 1.0/60.0, 4, 1); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	counters := B2World_GetCounters(worldId)
	for i := 0; i < B2_overflowIndex; i++ {
		if counters.ColorCounts[i] != 0 {
			t.Fatalf("color %d used while overflow is forced", i)
		}
	}

	if counters.ColorCounts[B2_overflowIndex] == 0 {
		t.Fatalf("overflow is empty")
	}
}

func TestIslandSplit(t *testing.T) {
	B2_validate = true
	defer func() { B2_validate = false }()

	def := B2DefaultWorldDef()
	def.Gravity = B2Vec2_zero
	worldId, err := B2CreateWorld(&def)
	if err != nil {
		t.Fatalf("create world: %v", err)
	}
	defer B2DestroyWorld(worldId)

	// Three boxes in a row touching each other, no ground
	shapeDef := B2DefaultShapeDef()
	box := B2MakeSquare(0.5)
	var bodies []B2BodyId
	for i := 0; i < 3; i++ {
		bodyDef := B2DefaultBodyDef()
		bodyDef.Type = B2BodyType.E_dynamicBody
		bodyDef.Position = MakeB2Vec2(float64(i)*0.999, 0.0)
		bodyId, err := B2CreateBody(worldId, &bodyDef)
		if err != nil {
			t.Fatalf("create body: %v", err)
		}
		if _, err := B2CreatePolygonShape(bodyId, &shapeDef, &box); err != nil {
			t.Fatalf("create shape: %v", err)
		}
		bodies = append(bodies, bodyId)
	}

	world := b2GetWorldFromId(worldId)

	if err := B2World_Step(worldId, 1.0/60.0, 4, 1); err != nil {
		t.Fatalf("step: %v", err)
	}

	islandOf := func(bodyId B2BodyId) int32 {
		return b2FindRootIsland(world, b2GetBodyFullId(world, bodyId).IslandId)
	}

	if islandOf(bodies[0]) != islandOf(bodies[2]) {
		t.Fatalf("touching boxes are not merged into one island")
	}

	// Removing the middle box disconnects the outer boxes
	if err := B2DestroyBody(bodies[1]); err != nil {
		t.Fatalf("destroy body: %v", err)
	}

	// Let the sleep timer run so the island is considered for splitting
	for i := 0; i < 60; i++ {
		if err := B2World_Step(worldId, 1.0/60.0, 4, 1); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if islandOf(bodies[0]) == islandOf(bodies[2]) {
		t.Fatalf("disconnected boxes still share island %d", islandOf(bodies[0]))
	}

	world.islands.ForEach(func(islandId int32, island *b2Island) {
		b2ValidateIsland(world, islandId)
	})

	if B2Body_IsAwake(bodies[0]) || B2Body_IsAwake(bodies[2]) {
		t.Fatalf("resting boxes did not fall asleep")
	}
}

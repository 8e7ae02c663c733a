package box2d

import (
	"fmt"
)

// A chain owns one smooth segment shape per edge.
type b2ChainShape struct {
	Id           int32
	BodyId       int32
	NextChainId  int32
	ShapeIndices []int32
}

func b2MakeChainId(world *b2World, chainId int32) B2ChainId {
	return B2ChainId{Index1: chainId + 1, World0: world.worldId, WorldRevision: world.revision, Revision: world.chains.Revision(chainId)}
}

func b2IsChainIdValid(world *b2World, id B2ChainId) bool {
	if world == nil || world.revision != id.WorldRevision {
		return false
	}
	return world.chains.Valid(id.Index1-1, id.Revision)
}

func b2GetMutableChain(chainId B2ChainId) (*b2World, *b2ChainShape, error) {
	world := b2GetWorld(chainId.World0)
	if world == nil {
		return nil, nil, fmt.Errorf("chain %d: %w", chainId.Index1, ErrInvalidId)
	}

	if world.locked {
		return nil, nil, ErrWorldLocked
	}

	if b2IsChainIdValid(world, chainId) == false {
		return nil, nil, fmt.Errorf("chain %d: %w", chainId.Index1, ErrInvalidId)
	}

	return world, world.chains.Get(chainId.Index1 - 1), nil
}

/// Create a chain shape
///	@see B2ChainDef for details
func B2CreateChain(bodyId B2BodyId, def *B2ChainDef) (B2ChainId, error) {
	world, body, err := b2GetMutableBody(bodyId)
	if err != nil {
		return B2_nullChainId, err
	}

	count := len(def.Points)
	if (def.IsLoop && count < 3) || (def.IsLoop == false && count < 4) {
		return B2_nullChainId, fmt.Errorf("chain with %d points: %w", count, ErrDegenerateGeometry)
	}

	if b2ValidateChainPoints(def.Points, def.IsLoop) == false {
		return B2_nullChainId, fmt.Errorf("chain points too close: %w", ErrDegenerateGeometry)
	}

	chainId, _ := world.chains.Allocate()
	chain := world.chains.Get(chainId)

	var segments []B2SmoothSegment
	if def.IsLoop {
		segments = B2MakeLoopSegments(def.Points, chainId)
	} else {
		segments = B2MakeChainSegments(def.Points, chainId)
	}

	*chain = b2ChainShape{
		Id:           chainId,
		BodyId:       body.Id,
		NextChainId:  body.HeadChainId,
		ShapeIndices: make([]int32, len(segments)),
	}
	body.HeadChainId = chainId

	shapeDef := B2DefaultShapeDef()
	shapeDef.UserData = def.UserData
	shapeDef.Restitution = def.Restitution
	shapeDef.Friction = def.Friction
	shapeDef.Filter = def.Filter
	shapeDef.EnableContactEvents = false
	shapeDef.EnableHitEvents = false
	shapeDef.EnableSensorEvents = false

	for i := range segments {
		segment := segments[i]
		shape := b2CreateShapeInternal(world, body, body.Transform, &shapeDef, B2ShapeType.E_smoothSegmentShape,
			func(shape *b2Shape) { shape.SmoothSegment = segment })
		chain.ShapeIndices[i] = shape.Id
	}

	return b2MakeChainId(world, chainId), nil
}

/// Destroy a chain shape
func B2DestroyChain(chainId B2ChainId) error {
	world, chain, err := b2GetMutableChain(chainId)
	if err != nil {
		return err
	}

	body := world.bodies.Get(chain.BodyId)

	// Remove the chain from the body's singly linked list.
	found := false
	if body.HeadChainId == chain.Id {
		body.HeadChainId = chain.NextChainId
		found = true
	} else {
		prevId := body.HeadChainId
		for prevId != B2_nullIndex {
			prev := world.chains.Get(prevId)
			if prev.NextChainId == chain.Id {
				prev.NextChainId = chain.NextChainId
				found = true
				break
			}
			prevId = prev.NextChainId
		}
	}
	B2Assert(found)

	wakeBodies := true
	for _, shapeId := range chain.ShapeIndices {
		shape := world.shapes.Get(shapeId)
		b2DestroyShapeInternal(world, shape, body, wakeBodies)
	}

	world.chains.Free(chain.Id)
	return nil
}

/// Chain identifier validation. Provides validation for up to 64K allocations.
func B2Chain_IsValid(id B2ChainId) bool {
	return b2IsChainIdValid(b2GetWorld(id.World0), id)
}

/// Get the shape ids of the chain segments, in chain order.
func B2Chain_GetSegments(chainId B2ChainId) []B2ShapeId {
	world := b2GetWorld(chainId.World0)
	B2Assert(b2IsChainIdValid(world, chainId))
	chain := world.chains.Get(chainId.Index1 - 1)

	shapeIds := make([]B2ShapeId, len(chain.ShapeIndices))
	for i, shapeId := range chain.ShapeIndices {
		shapeIds[i] = b2MakeShapeId(world, shapeId)
	}
	return shapeIds
}

/// Set the chain friction
func B2Chain_SetFriction(chainId B2ChainId, friction float64) error {
	world, chain, err := b2GetMutableChain(chainId)
	if err != nil {
		return err
	}

	if B2IsValid(friction) == false || friction < 0.0 {
		return fmt.Errorf("friction: %w", ErrInvalidDef)
	}

	for _, shapeId := range chain.ShapeIndices {
		world.shapes.Get(shapeId).Friction = friction
	}
	return nil
}

/// Set the chain restitution (bounciness)
func B2Chain_SetRestitution(chainId B2ChainId, restitution float64) error {
	world, chain, err := b2GetMutableChain(chainId)
	if err != nil {
		return err
	}

	if B2IsValid(restitution) == false || restitution < 0.0 {
		return fmt.Errorf("restitution: %w", ErrInvalidDef)
	}

	for _, shapeId := range chain.ShapeIndices {
		world.shapes.Get(shapeId).Restitution = restitution
	}
	return nil
}

package box2d

/// A chain is a free form sequence of line segments.
/// The chain has one-sided collision, with the surface normal pointing to the right of the edge.
/// This provides a counter-clockwise winding like the polygon shape.
/// Connectivity information is used to create smooth collisions.
/// @warning the chain will not collide properly if there are self-intersections.
type B2ChainDef struct {
	/// Use this to store application specific shape data.
	UserData any

	/// An array of at least 4 points. These are cloned and may be temporary.
	Points []B2Vec2

	/// The friction coefficient, usually in the range [0,1].
	Friction float64

	/// The restitution (elasticity) usually in the range [0,1].
	Restitution float64

	/// Contact filtering data.
	Filter B2Filter

	/// Indicates a closed chain formed by connecting the first and last vertices
	IsLoop bool
}

/// Use this to initialize your chain definition
func B2DefaultChainDef() B2ChainDef {
	return B2ChainDef{
		Friction: 0.6,
		Filter:   B2DefaultFilter(),
	}
}

func MakeB2ChainDef() B2ChainDef {
	return B2DefaultChainDef()
}

// Returns false if two consecutive points are too close together.
func b2ValidateChainPoints(points []B2Vec2, isLoop bool) bool {
	count := len(points)
	for i := 1; i < count; i++ {
		if B2Vec2DistanceSquared(points[i-1], points[i]) <= B2_linearSlop*B2_linearSlop {
			return false
		}
	}

	if isLoop && B2Vec2DistanceSquared(points[count-1], points[0]) <= B2_linearSlop*B2_linearSlop {
		return false
	}

	return true
}

/// Build the smooth segments of a loop. Every point starts a segment and the
/// ghost vertices wrap around so the loop has no open ends.
func B2MakeLoopSegments(points []B2Vec2, chainId int32) []B2SmoothSegment {
	count := len(points)
	B2Assert(count >= 3)

	segments := make([]B2SmoothSegment, count)
	prevIndex := count - 1
	for i := 0; i < count; i++ {
		i1 := i
		i2 := i + 1
		if i2 >= count {
			i2 -= count
		}
		i3 := i + 2
		if i3 >= count {
			i3 -= count
		}

		segments[i] = B2SmoothSegment{
			Ghost1:  points[prevIndex],
			Segment: B2Segment{Point1: points[i1], Point2: points[i2]},
			Ghost2:  points[i3],
			ChainId: chainId,
		}
		prevIndex = i1
	}

	return segments
}

/// Build the smooth segments of an open chain. The first and last points are
/// ghost vertices only, so they connect this chain to neighboring geometry.
func B2MakeChainSegments(points []B2Vec2, chainId int32) []B2SmoothSegment {
	count := len(points)
	B2Assert(count >= 4)

	segmentCount := count - 3
	segments := make([]B2SmoothSegment, segmentCount)
	for i := 0; i < segmentCount; i++ {
		segments[i] = B2SmoothSegment{
			Ghost1:  points[i],
			Segment: B2Segment{Point1: points[i+1], Point2: points[i+2]},
			Ghost2:  points[i+3],
			ChainId: chainId,
		}
	}

	return segments
}

/// Ray cast a single chain segment. Chains are one-sided so rays starting on
/// the left side pass through.
func B2RayCastSmoothSegment(input B2RayCastInput, shape B2SmoothSegment) B2CastOutput {
	return B2RayCastSegment(input, shape.Segment, true)
}

/// The bounding box of a chain segment. The ghost vertices do not contribute.
func B2ComputeSmoothSegmentAABB(shape B2SmoothSegment, xf B2Transform) B2AABB {
	return B2ComputeSegmentAABB(shape.Segment, xf)
}

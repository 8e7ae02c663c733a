package box2d

///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
// B2Id.h
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////
///////////////////////////////////////////////////////////////////////////////

// These ids serve as handles to internal Box2D objects.
// These should be considered opaque data and passed by value.
// Index1 is the pool index plus one so the zero value is the null id.
// The revision is matched against the pool slot so a handle to a destroyed
// object is rejected even after its slot has been reused. WorldRevision does the
// same for the owning world slot.

/// World id references a world instance. This should be treated as an opaque handle.
type B2WorldId struct {
	Index1   uint16
	Revision uint16
}

/// Body id references a body instance. This should be treated as an opaque handle.
type B2BodyId struct {
	Index1   int32
	World0        uint16
	WorldRevision uint16
	Revision      uint16
}

/// Shape id references a shape instance. This should be treated as an opaque handle.
type B2ShapeId struct {
	Index1   int32
	World0        uint16
	WorldRevision uint16
	Revision      uint16
}

/// Joint id references a joint instance. This should be treated as an opaque handle.
type B2JointId struct {
	Index1   int32
	World0        uint16
	WorldRevision uint16
	Revision      uint16
}

/// Chain id references a chain instances. This should be treated as an opaque handle.
type B2ChainId struct {
	Index1   int32
	World0        uint16
	WorldRevision uint16
	Revision      uint16
}

var B2_nullWorldId = B2WorldId{}
var B2_nullBodyId = B2BodyId{}
var B2_nullShapeId = B2ShapeId{}
var B2_nullJointId = B2JointId{}
var B2_nullChainId = B2ChainId{}

func (id B2WorldId) IsNull() bool { return id.Index1 == 0 }
func (id B2BodyId) IsNull() bool  { return id.Index1 == 0 }
func (id B2ShapeId) IsNull() bool { return id.Index1 == 0 }
func (id B2JointId) IsNull() bool { return id.Index1 == 0 }
func (id B2ChainId) IsNull() bool { return id.Index1 == 0 }

func B2BodyIdEquals(a, b B2BodyId) bool {
	return a.Index1 == b.Index1 && a.World0 == b.World0 && a.WorldRevision == b.WorldRevision && a.Revision == b.Revision
}

func B2ShapeIdEquals(a, b B2ShapeId) bool {
	return a.Index1 == b.Index1 && a.World0 == b.World0 && a.WorldRevision == b.WorldRevision && a.Revision == b.Revision
}

func B2JointIdEquals(a, b B2JointId) bool {
	return a.Index1 == b.Index1 && a.World0 == b.World0 && a.WorldRevision == b.WorldRevision && a.Revision == b.Revision
}

package box2d

// Contacts and joints are colored so that no two constraints of the same color
// share a non-static body. Each color can then be solved in parallel.
// Constraints that cannot be colored go to the overflow, which is solved serially.
// Static bodies are never marked in the color bitsets because the solver never
// writes to them.

const B2_overflowIndex = B2_graphColorCount

type b2GraphColor struct {
	// Bodies used by this color, indexed by body id
	BodySet B2BitSet

	ContactIds []int32
	JointIds   []int32
}

type b2ConstraintGraph struct {
	// The last color is the overflow. Its body set is unused.
	Colors [B2_graphColorCount + 1]b2GraphColor
}

func b2CreateGraph(bodyCapacity int) b2ConstraintGraph {
	var graph b2ConstraintGraph
	bodyCapacity = B2Max(bodyCapacity, 8)

	for i := 0; i < B2_overflowIndex; i++ {
		graph.Colors[i].BodySet = MakeB2BitSet(bodyCapacity)
	}

	return graph
}

// Contacts are always created as non-touching. They get cloned into the constraint
// graph once they are found to be touching. Contacts against a static body skip
// color zero so the first colors stay available for dynamic pairs.
func b2AssignContactColor(graph *b2ConstraintGraph, bodyIdA int32, bodyIdB int32, staticA bool, staticB bool) int32 {
	B2Assert(staticA == false || staticB == false)

	if B2_forceOverflow {
		return B2_overflowIndex
	}

	if staticA == false && staticB == false {
		for i := 0; i < B2_overflowIndex; i++ {
			color := &graph.Colors[i]
			if color.BodySet.GetBit(int(bodyIdA)) || color.BodySet.GetBit(int(bodyIdB)) {
				continue
			}

			color.BodySet.SetBit(int(bodyIdA))
			color.BodySet.SetBit(int(bodyIdB))
			return int32(i)
		}
	} else if staticA == false {
		// No static contacts in color 0
		for i := 1; i < B2_overflowIndex; i++ {
			color := &graph.Colors[i]
			if color.BodySet.GetBit(int(bodyIdA)) {
				continue
			}

			color.BodySet.SetBit(int(bodyIdA))
			return int32(i)
		}
	} else if staticB == false {
		// No static contacts in color 0
		for i := 1; i < B2_overflowIndex; i++ {
			color := &graph.Colors[i]
			if color.BodySet.GetBit(int(bodyIdB)) {
				continue
			}

			color.BodySet.SetBit(int(bodyIdB))
			return int32(i)
		}
	}

	return B2_overflowIndex
}

func b2AddContactToGraph(world *b2World, contact *b2Contact) {
	B2Assert(contact.ColorIndex == B2_nullIndex)
	B2Assert(contact.Flags&B2ContactFlags.E_touchingFlag != 0)
	B2Assert(contact.Flags&B2ContactFlags.E_sensorFlag == 0)

	graph := &world.constraintGraph

	bodyIdA := contact.Edges[0].BodyId
	bodyIdB := contact.Edges[1].BodyId
	bodyA := world.bodies.Get(bodyIdA)
	bodyB := world.bodies.Get(bodyIdB)
	staticA := bodyA.Type == B2BodyType.E_staticBody
	staticB := bodyB.Type == B2BodyType.E_staticBody

	colorIndex := b2AssignContactColor(graph, bodyIdA, bodyIdB, staticA, staticB)
	color := &graph.Colors[colorIndex]

	contact.ColorIndex = colorIndex
	contact.LocalIndex = int32(len(color.ContactIds))
	color.ContactIds = append(color.ContactIds, contact.ContactId)
}

func b2RemoveContactFromGraph(world *b2World, bodyA *b2Body, bodyB *b2Body, contact *b2Contact) {
	graph := &world.constraintGraph

	colorIndex := contact.ColorIndex
	localIndex := contact.LocalIndex
	B2Assert(0 <= colorIndex && colorIndex <= B2_overflowIndex)

	color := &graph.Colors[colorIndex]

	if colorIndex != B2_overflowIndex {
		// might clear a bit for a static body, but this has no effect
		color.BodySet.ClearBit(int(bodyA.Id))
		color.BodySet.ClearBit(int(bodyB.Id))
	}

	// Remove by swapping with the last contact of the color
	lastIndex := int32(len(color.ContactIds) - 1)
	if localIndex != lastIndex {
		movedId := color.ContactIds[lastIndex]
		color.ContactIds[localIndex] = movedId
		world.contacts.Get(movedId).LocalIndex = localIndex
	}
	color.ContactIds = color.ContactIds[:lastIndex]

	contact.ColorIndex = B2_nullIndex
	contact.LocalIndex = B2_nullIndex
}

func b2AssignJointColor(graph *b2ConstraintGraph, bodyIdA int32, bodyIdB int32, staticA bool, staticB bool) int32 {
	B2Assert(staticA == false || staticB == false)

	if B2_forceOverflow {
		return B2_overflowIndex
	}

	if staticA == false && staticB == false {
		for i := 0; i < B2_overflowIndex; i++ {
			color := &graph.Colors[i]
			if color.BodySet.GetBit(int(bodyIdA)) || color.BodySet.GetBit(int(bodyIdB)) {
				continue
			}

			color.BodySet.SetBit(int(bodyIdA))
			color.BodySet.SetBit(int(bodyIdB))
			return int32(i)
		}
	} else if staticA == false {
		for i := 0; i < B2_overflowIndex; i++ {
			color := &graph.Colors[i]
			if color.BodySet.GetBit(int(bodyIdA)) {
				continue
			}

			color.BodySet.SetBit(int(bodyIdA))
			return int32(i)
		}
	} else if staticB == false {
		for i := 0; i < B2_overflowIndex; i++ {
			color := &graph.Colors[i]
			if color.BodySet.GetBit(int(bodyIdB)) {
				continue
			}

			color.BodySet.SetBit(int(bodyIdB))
			return int32(i)
		}
	}

	return B2_overflowIndex
}

func b2CreateJointInGraph(world *b2World, joint *b2Joint) {
	B2Assert(joint.ColorIndex == B2_nullIndex)

	graph := &world.constraintGraph

	bodyIdA := joint.Edges[0].BodyId
	bodyIdB := joint.Edges[1].BodyId
	bodyA := world.bodies.Get(bodyIdA)
	bodyB := world.bodies.Get(bodyIdB)
	staticA := bodyA.Type == B2BodyType.E_staticBody
	staticB := bodyB.Type == B2BodyType.E_staticBody

	colorIndex := b2AssignJointColor(graph, bodyIdA, bodyIdB, staticA, staticB)
	color := &graph.Colors[colorIndex]

	joint.ColorIndex = colorIndex
	joint.LocalIndex = int32(len(color.JointIds))
	color.JointIds = append(color.JointIds, joint.JointId)
}

func b2RemoveJointFromGraph(world *b2World, bodyA *b2Body, bodyB *b2Body, joint *b2Joint) {
	graph := &world.constraintGraph

	colorIndex := joint.ColorIndex
	localIndex := joint.LocalIndex
	B2Assert(0 <= colorIndex && colorIndex <= B2_overflowIndex)

	color := &graph.Colors[colorIndex]

	if colorIndex != B2_overflowIndex {
		color.BodySet.ClearBit(int(bodyA.Id))
		color.BodySet.ClearBit(int(bodyB.Id))
	}

	lastIndex := int32(len(color.JointIds) - 1)
	if localIndex != lastIndex {
		movedId := color.JointIds[lastIndex]
		color.JointIds[localIndex] = movedId
		world.joints.Get(movedId).LocalIndex = localIndex
	}
	color.JointIds = color.JointIds[:lastIndex]

	joint.ColorIndex = B2_nullIndex
	joint.LocalIndex = B2_nullIndex
}

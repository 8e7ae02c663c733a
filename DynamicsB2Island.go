package box2d

/*
Persistent islands for sleeping.

Islands are built from dynamic bodies connected by touching contacts and joints.
Static and kinematic bodies never belong to an island, so they never link two
islands together.

Adding a constraint merges islands through a union-find parent pointer. The
merge itself is deferred to the start of the next solve (b2MergeAwakeIslands).

Removing a constraint only increments constraintRemoveCount. The island is split
lazily when it is the sleepiest candidate, because an island with pending removals
cannot tell whether it is still connected and therefore cannot sleep.
*/
type b2Island struct {
	Id int32

	HeadBody  int32
	TailBody  int32
	BodyCount int

	HeadContact  int32
	TailContact  int32
	ContactCount int

	HeadJoint  int32
	TailJoint  int32
	JointCount int

	// Union-find parent used to defer island merging
	ParentIsland int32

	// Keeps track of how many contacts have been removed from this island.
	// This is used to determine if an island is a candidate for splitting.
	ConstraintRemoveCount int

	// Index into the awake island array, B2_nullIndex when sleeping
	AwakeIndex int32
}

func b2CreateIsland(world *b2World) *b2Island {
	islandId, _ := world.islands.Allocate()
	island := world.islands.Get(islandId)

	*island = b2Island{
		Id:           islandId,
		HeadBody:     B2_nullIndex,
		TailBody:     B2_nullIndex,
		HeadContact:  B2_nullIndex,
		TailContact:  B2_nullIndex,
		HeadJoint:    B2_nullIndex,
		TailJoint:    B2_nullIndex,
		ParentIsland: B2_nullIndex,
		AwakeIndex:   int32(len(world.awakeIslands)),
	}
	world.awakeIslands = append(world.awakeIslands, islandId)

	return island
}

func (world *b2World) removeAwakeIsland(island *b2Island) {
	index := island.AwakeIndex
	B2Assert(index != B2_nullIndex)

	last := int32(len(world.awakeIslands) - 1)
	if index != last {
		movedId := world.awakeIslands[last]
		world.awakeIslands[index] = movedId
		world.islands.Get(movedId).AwakeIndex = index
	}
	world.awakeIslands = world.awakeIslands[:last]
	island.AwakeIndex = B2_nullIndex
}

func b2DestroyIsland(world *b2World, islandId int32) {
	island := world.islands.Get(islandId)
	if island.AwakeIndex != B2_nullIndex {
		world.removeAwakeIsland(island)
	}
	world.islands.Free(islandId)
}

func b2CreateIslandForBody(world *b2World, body *b2Body) {
	B2Assert(body.Type == B2BodyType.E_dynamicBody)
	B2Assert(body.IslandId == B2_nullIndex)

	island := b2CreateIsland(world)

	body.IslandId = island.Id
	body.IslandPrev = B2_nullIndex
	body.IslandNext = B2_nullIndex
	island.HeadBody = body.Id
	island.TailBody = body.Id
	island.BodyCount = 1
}

// The body must have no contacts or joints left in the island.
func b2RemoveBodyFromIsland(world *b2World, body *b2Body) {
	if body.IslandId == B2_nullIndex {
		return
	}

	islandId := body.IslandId
	island := world.islands.Get(islandId)

	// Fix the island's linked list of sims
	if body.IslandPrev != B2_nullIndex {
		world.bodies.Get(body.IslandPrev).IslandNext = body.IslandNext
	}

	if body.IslandNext != B2_nullIndex {
		world.bodies.Get(body.IslandNext).IslandPrev = body.IslandPrev
	}

	B2Assert(island.BodyCount > 0)
	island.BodyCount -= 1
	islandDestroyed := false

	if island.HeadBody == body.Id {
		island.HeadBody = body.IslandNext

		if island.HeadBody == B2_nullIndex {
			// Destroy empty island
			B2Assert(island.TailBody == body.Id)
			B2Assert(island.BodyCount == 0)
			B2Assert(island.ContactCount == 0)
			B2Assert(island.JointCount == 0)

			b2DestroyIsland(world, islandId)
			islandDestroyed = true
		}
	} else if island.TailBody == body.Id {
		island.TailBody = body.IslandPrev
	}

	if islandDestroyed == false {
		b2ValidateIsland(world, islandId)
	}

	body.IslandId = B2_nullIndex
	body.IslandPrev = B2_nullIndex
	body.IslandNext = B2_nullIndex
}

// Follow parent pointers to the root island, compressing the path on the way.
func b2FindRootIsland(world *b2World, islandId int32) int32 {
	if islandId == B2_nullIndex {
		return B2_nullIndex
	}

	island := world.islands.Get(islandId)
	parentId := island.ParentIsland
	for parentId != B2_nullIndex {
		parent := world.islands.Get(parentId)
		if parent.ParentIsland != B2_nullIndex {
			// path compression
			island.ParentIsland = parent.ParentIsland
		}

		island = parent
		islandId = parentId
		parentId = island.ParentIsland
	}

	return islandId
}

///////////////////////////////////////////////////////////////////////////////
// Contacts
///////////////////////////////////////////////////////////////////////////////

func b2AddContactToIsland(world *b2World, islandId int32, contact *b2Contact) {
	B2Assert(contact.IslandId == B2_nullIndex)
	B2Assert(contact.IslandPrev == B2_nullIndex)
	B2Assert(contact.IslandNext == B2_nullIndex)

	island := world.islands.Get(islandId)

	if island.HeadContact != B2_nullIndex {
		contact.IslandNext = island.HeadContact
		headContact := world.contacts.Get(island.HeadContact)
		headContact.IslandPrev = contact.ContactId
	}

	island.HeadContact = contact.ContactId
	if island.TailContact == B2_nullIndex {
		island.TailContact = island.HeadContact
	}

	island.ContactCount += 1
	contact.IslandId = islandId

	b2ValidateIsland(world, islandId)
}

// Link a touching contact into the island graph. Wakes sleeping islands
// because a touching constraint cannot connect an awake and a sleeping island.
func b2LinkContact(world *b2World, contact *b2Contact) {
	B2Assert(contact.Flags&B2ContactFlags.E_touchingFlag != 0)
	B2Assert(contact.Flags&B2ContactFlags.E_sensorFlag == 0)

	bodyA := world.bodies.Get(contact.Edges[0].BodyId)
	bodyB := world.bodies.Get(contact.Edges[1].BodyId)

	b2WakeBody(world, bodyA)
	b2WakeBody(world, bodyB)

	islandIdA := bodyA.IslandId
	islandIdB := bodyB.IslandId

	// Static and kinematic bodies have null island indices.
	B2Assert(islandIdA != B2_nullIndex || islandIdB != B2_nullIndex)

	if islandIdA == islandIdB {
		// Contact in same island
		b2AddContactToIsland(world, islandIdA, contact)
		return
	}

	// Union-find root of islandA and islandB
	islandIdA = b2FindRootIsland(world, islandIdA)
	islandIdB = b2FindRootIsland(world, islandIdB)

	// Link islands
	if islandIdA != B2_nullIndex && islandIdB != B2_nullIndex && islandIdA != islandIdB {
		islandB := world.islands.Get(islandIdB)
		B2Assert(islandB.ParentIsland == B2_nullIndex)
		islandB.ParentIsland = islandIdA
	}

	if islandIdA != B2_nullIndex {
		b2AddContactToIsland(world, islandIdA, contact)
	} else {
		b2AddContactToIsland(world, islandIdB, contact)
	}
}

// This is called when a contact no longer has contact points or when a contact is destroyed.
func b2UnlinkContact(world *b2World, contact *b2Contact) {
	B2Assert(contact.IslandId != B2_nullIndex)

	// remove from island
	islandId := contact.IslandId
	island := world.islands.Get(islandId)

	if contact.IslandPrev != B2_nullIndex {
		prevContact := world.contacts.Get(contact.IslandPrev)
		B2Assert(prevContact.IslandNext == contact.ContactId)
		prevContact.IslandNext = contact.IslandNext
	}

	if contact.IslandNext != B2_nullIndex {
		nextContact := world.contacts.Get(contact.IslandNext)
		B2Assert(nextContact.IslandPrev == contact.ContactId)
		nextContact.IslandPrev = contact.IslandPrev
	}

	if island.HeadContact == contact.ContactId {
		B2Assert(contact.IslandPrev == B2_nullIndex)
		island.HeadContact = contact.IslandNext
	}

	if island.TailContact == contact.ContactId {
		B2Assert(contact.IslandNext == B2_nullIndex)
		island.TailContact = contact.IslandPrev
	}

	B2Assert(island.ContactCount > 0)
	island.ContactCount -= 1
	island.ConstraintRemoveCount += 1

	contact.IslandId = B2_nullIndex
	contact.IslandPrev = B2_nullIndex
	contact.IslandNext = B2_nullIndex

	b2ValidateIsland(world, islandId)
}

///////////////////////////////////////////////////////////////////////////////
// Joints
///////////////////////////////////////////////////////////////////////////////

func b2AddJointToIsland(world *b2World, islandId int32, joint *b2Joint) {
	B2Assert(joint.IslandId == B2_nullIndex)
	B2Assert(joint.IslandPrev == B2_nullIndex)
	B2Assert(joint.IslandNext == B2_nullIndex)

	island := world.islands.Get(islandId)

	if island.HeadJoint != B2_nullIndex {
		joint.IslandNext = island.HeadJoint
		headJoint := world.joints.Get(island.HeadJoint)
		headJoint.IslandPrev = joint.JointId
	}

	island.HeadJoint = joint.JointId
	if island.TailJoint == B2_nullIndex {
		island.TailJoint = island.HeadJoint
	}

	island.JointCount += 1
	joint.IslandId = islandId

	b2ValidateIsland(world, islandId)
}

// Link a joint into the island graph. At least one body must be dynamic.
func b2LinkJoint(world *b2World, joint *b2Joint, mergeIslands bool) {
	bodyA := world.bodies.Get(joint.Edges[0].BodyId)
	bodyB := world.bodies.Get(joint.Edges[1].BodyId)

	b2WakeBody(world, bodyA)
	b2WakeBody(world, bodyB)

	islandIdA := bodyA.IslandId
	islandIdB := bodyB.IslandId

	B2Assert(islandIdA != B2_nullIndex || islandIdB != B2_nullIndex)

	if islandIdA == islandIdB {
		// Joint in same island
		b2AddJointToIsland(world, islandIdA, joint)
		return
	}

	// Union-find root of islandA and islandB
	islandIdA = b2FindRootIsland(world, islandIdA)
	islandIdB = b2FindRootIsland(world, islandIdB)

	// Link islands
	if islandIdA != B2_nullIndex && islandIdB != B2_nullIndex && islandIdA != islandIdB {
		islandB := world.islands.Get(islandIdB)
		B2Assert(islandB.ParentIsland == B2_nullIndex)
		islandB.ParentIsland = islandIdA
	}

	if islandIdA != B2_nullIndex {
		b2AddJointToIsland(world, islandIdA, joint)
	} else {
		b2AddJointToIsland(world, islandIdB, joint)
	}

	// Joints need to have islands merged immediately when they are created
	// to keep the island graph valid.
	// However, when a body type is being changed the merge can be deferred until
	// all joints are linked.
	if mergeIslands {
		b2MergeAwakeIslands(world)
	}
}

func b2UnlinkJoint(world *b2World, joint *b2Joint) {
	B2Assert(joint.IslandId != B2_nullIndex)

	// remove from island
	islandId := joint.IslandId
	island := world.islands.Get(islandId)

	if joint.IslandPrev != B2_nullIndex {
		prevJoint := world.joints.Get(joint.IslandPrev)
		B2Assert(prevJoint.IslandNext == joint.JointId)
		prevJoint.IslandNext = joint.IslandNext
	}

	if joint.IslandNext != B2_nullIndex {
		nextJoint := world.joints.Get(joint.IslandNext)
		B2Assert(nextJoint.IslandPrev == joint.JointId)
		nextJoint.IslandPrev = joint.IslandPrev
	}

	if island.HeadJoint == joint.JointId {
		B2Assert(joint.IslandPrev == B2_nullIndex)
		island.HeadJoint = joint.IslandNext
	}

	if island.TailJoint == joint.JointId {
		B2Assert(joint.IslandNext == B2_nullIndex)
		island.TailJoint = joint.IslandPrev
	}

	B2Assert(island.JointCount > 0)
	island.JointCount -= 1
	island.ConstraintRemoveCount += 1

	joint.IslandId = B2_nullIndex
	joint.IslandPrev = B2_nullIndex
	joint.IslandNext = B2_nullIndex

	b2ValidateIsland(world, islandId)
}

///////////////////////////////////////////////////////////////////////////////
// Merge
///////////////////////////////////////////////////////////////////////////////

// Merge an island into its root island.
func b2MergeIsland(world *b2World, island *b2Island) {
	B2Assert(island.ParentIsland != B2_nullIndex)

	rootId := island.ParentIsland
	rootIsland := world.islands.Get(rootId)
	B2Assert(rootIsland.ParentIsland == B2_nullIndex)

	// remap island indices
	bodyId := island.HeadBody
	for bodyId != B2_nullIndex {
		body := world.bodies.Get(bodyId)
		body.IslandId = rootId
		bodyId = body.IslandNext
	}

	contactId := island.HeadContact
	for contactId != B2_nullIndex {
		contact := world.contacts.Get(contactId)
		contact.IslandId = rootId
		contactId = contact.IslandNext
	}

	jointId := island.HeadJoint
	for jointId != B2_nullIndex {
		joint := world.joints.Get(jointId)
		joint.IslandId = rootId
		jointId = joint.IslandNext
	}

	// connect body lists
	B2Assert(rootIsland.TailBody != B2_nullIndex)
	tailBody := world.bodies.Get(rootIsland.TailBody)
	B2Assert(tailBody.IslandNext == B2_nullIndex)
	tailBody.IslandNext = island.HeadBody

	B2Assert(island.HeadBody != B2_nullIndex)
	headBody := world.bodies.Get(island.HeadBody)
	B2Assert(headBody.IslandPrev == B2_nullIndex)
	headBody.IslandPrev = rootIsland.TailBody

	rootIsland.TailBody = island.TailBody
	rootIsland.BodyCount += island.BodyCount

	// connect contact lists
	if rootIsland.HeadContact == B2_nullIndex {
		// Root island has no contacts
		B2Assert(rootIsland.TailContact == B2_nullIndex && rootIsland.ContactCount == 0)
		rootIsland.HeadContact = island.HeadContact
		rootIsland.TailContact = island.TailContact
		rootIsland.ContactCount = island.ContactCount
	} else if island.HeadContact != B2_nullIndex {
		// Both islands have contacts
		tailContact := world.contacts.Get(rootIsland.TailContact)
		headContact := world.contacts.Get(island.HeadContact)
		B2Assert(tailContact.IslandNext == B2_nullIndex)
		B2Assert(headContact.IslandPrev == B2_nullIndex)

		tailContact.IslandNext = island.HeadContact
		headContact.IslandPrev = rootIsland.TailContact
		rootIsland.TailContact = island.TailContact
		rootIsland.ContactCount += island.ContactCount
	}

	if rootIsland.HeadJoint == B2_nullIndex {
		// Root island has no joints
		B2Assert(rootIsland.TailJoint == B2_nullIndex && rootIsland.JointCount == 0)
		rootIsland.HeadJoint = island.HeadJoint
		rootIsland.TailJoint = island.TailJoint
		rootIsland.JointCount = island.JointCount
	} else if island.HeadJoint != B2_nullIndex {
		// Both islands have joints
		tailJoint := world.joints.Get(rootIsland.TailJoint)
		headJoint := world.joints.Get(island.HeadJoint)
		B2Assert(tailJoint.IslandNext == B2_nullIndex)
		B2Assert(headJoint.IslandPrev == B2_nullIndex)

		tailJoint.IslandNext = island.HeadJoint
		headJoint.IslandPrev = rootIsland.TailJoint
		rootIsland.TailJoint = island.TailJoint
		rootIsland.JointCount += island.JointCount
	}

	// Track removed constraints
	rootIsland.ConstraintRemoveCount += island.ConstraintRemoveCount

	b2ValidateIsland(world, rootId)
}

// Iterate over all awake islands and merge any that need merging
func b2MergeAwakeIslands(world *b2World) {
	awakeIslandCount := len(world.awakeIslands)

	// Step 1: Ensure every child island points to its root island. This avoids merging a child island with
	// a parent island that has already been merged with a grand-parent island.
	for i := 0; i < awakeIslandCount; i++ {
		islandId := world.awakeIslands[i]
		island := world.islands.Get(islandId)

		rootId := b2FindRootIsland(world, islandId)
		if rootId != islandId {
			island.ParentIsland = rootId
		}
	}

	// Step 2: merge every awake island into its parent (which must be a root island)
	// Reverse to support removal from awake array.
	for i := awakeIslandCount - 1; i >= 0; i-- {
		islandId := world.awakeIslands[i]
		island := world.islands.Get(islandId)

		if island.ParentIsland == B2_nullIndex {
			continue
		}

		b2MergeIsland(world, island)

		// this call does a remove swap from the end of the awake island array
		b2DestroyIsland(world, islandId)
	}
}

///////////////////////////////////////////////////////////////////////////////
// Split
///////////////////////////////////////////////////////////////////////////////

// Split an island because some contacts and/or joints have been removed.
// This is called during the constraint solver while islands are not being touched. This uses DFS and touches a lot of
// memory, so it can be quite slow.
// Note: contacts/joints connected to static bodies must belong to an island but don't affect island connectivity
func b2SplitIsland(world *b2World, baseId int32) {
	baseIsland := world.islands.Get(baseId)
	if baseIsland.ConstraintRemoveCount == 0 {
		return
	}

	b2ValidateIsland(world, baseId)

	bodyCount := baseIsland.BodyCount

	stack := MakeB2GrowableStack[int32](bodyCount)
	bodyIds := make([]int32, 0, bodyCount)

	// Build array containing all body indices from base island. These
	// serve as seed bodies for the depth first search (DFS).
	nextBody := baseIsland.HeadBody
	for nextBody != B2_nullIndex {
		bodyIds = append(bodyIds, nextBody)
		body := world.bodies.Get(nextBody)

		// Clear visitation mark
		body.IsMarked = false

		nextBody = body.IslandNext
	}
	B2Assert(len(bodyIds) == bodyCount)

	// Clear contact island flags. Only need to consider contacts
	// already in the base island.
	nextContactId := baseIsland.HeadContact
	for nextContactId != B2_nullIndex {
		contact := world.contacts.Get(nextContactId)
		contact.IsMarked = false
		nextContactId = contact.IslandNext
	}

	// Clear joint island flags.
	nextJoint := baseIsland.HeadJoint
	for nextJoint != B2_nullIndex {
		joint := world.joints.Get(nextJoint)
		joint.IsMarked = false
		nextJoint = joint.IslandNext
	}

	// Done with the base split island.
	b2DestroyIsland(world, baseId)

	// Each island is found as a depth first search starting from a seed body
	for _, seedIndex := range bodyIds {
		seed := world.bodies.Get(seedIndex)
		if seed.IsMarked {
			// The body has already been visited
			continue
		}

		stack.Push(seedIndex)
		seed.IsMarked = true

		// Create new island
		// No lock needed because only a single island can split per time step. No islands are being used during the constraint
		// solve. However, islands are touched during body finalization.
		island := b2CreateIsland(world)
		islandId := island.Id

		// Perform a depth first search (DFS) on the constraint graph.
		for stack.GetCount() > 0 {
			// Grab the next body off the stack and add it to the island.
			bodyId := stack.Pop()
			body := world.bodies.Get(bodyId)
			B2Assert(body.Type == B2BodyType.E_dynamicBody)
			B2Assert(body.IsMarked)

			// Add body to island
			body.IslandId = islandId
			if island.TailBody != B2_nullIndex {
				world.bodies.Get(island.TailBody).IslandNext = bodyId
			}
			body.IslandPrev = island.TailBody
			body.IslandNext = B2_nullIndex
			island.TailBody = bodyId

			if island.HeadBody == B2_nullIndex {
				island.HeadBody = bodyId
			}

			island.BodyCount += 1

			// Search all contacts connected to this body.
			contactKey := body.HeadContactKey
			for contactKey != B2_nullIndex {
				contactId := contactKey >> 1
				edgeIndex := contactKey & 1

				contact := world.contacts.Get(contactId)
				B2Assert(contact.ContactId == contactId)

				// Next key
				contactKey = contact.Edges[edgeIndex].NextKey

				// Has this contact already been added to this island?
				if contact.IsMarked {
					continue
				}

				// Skip sensors
				if contact.Flags&B2ContactFlags.E_sensorFlag != 0 {
					continue
				}

				// Is this contact enabled and touching?
				if contact.Flags&B2ContactFlags.E_touchingFlag == 0 {
					continue
				}

				contact.IsMarked = true

				otherEdgeIndex := edgeIndex ^ 1
				otherBody := world.bodies.Get(contact.Edges[otherEdgeIndex].BodyId)

				// Maybe add other body to stack. Only dynamic bodies carry islands.
				if otherBody.IsMarked == false && otherBody.Type == B2BodyType.E_dynamicBody {
					stack.Push(otherBody.Id)
					otherBody.IsMarked = true
				}

				// Add contact to island
				contact.IslandId = islandId
				if island.TailContact != B2_nullIndex {
					tailContact := world.contacts.Get(island.TailContact)
					tailContact.IslandNext = contactId
				}
				contact.IslandPrev = island.TailContact
				contact.IslandNext = B2_nullIndex
				island.TailContact = contactId

				if island.HeadContact == B2_nullIndex {
					island.HeadContact = contactId
				}

				island.ContactCount += 1
			}

			// Search all joints connect to this body.
			jointKey := body.HeadJointKey
			for jointKey != B2_nullIndex {
				jointId := jointKey >> 1
				edgeIndex := jointKey & 1

				joint := world.joints.Get(jointId)
				B2Assert(joint.JointId == jointId)

				// Next key
				jointKey = joint.Edges[edgeIndex].NextKey

				// Has this joint already been added to this island?
				if joint.IsMarked {
					continue
				}

				otherEdgeIndex := edgeIndex ^ 1
				otherBody := world.bodies.Get(joint.Edges[otherEdgeIndex].BodyId)

				// Don't simulate joints connected to disabled bodies.
				if otherBody.IsEnabled == false {
					continue
				}

				joint.IsMarked = true

				// Maybe add other body to stack
				if otherBody.IsMarked == false && otherBody.Type == B2BodyType.E_dynamicBody {
					stack.Push(otherBody.Id)
					otherBody.IsMarked = true
				}

				// Add joint to island
				joint.IslandId = islandId
				if island.TailJoint != B2_nullIndex {
					tailJoint := world.joints.Get(island.TailJoint)
					tailJoint.IslandNext = jointId
				}
				joint.IslandPrev = island.TailJoint
				joint.IslandNext = B2_nullIndex
				island.TailJoint = jointId

				if island.HeadJoint == B2_nullIndex {
					island.HeadJoint = jointId
				}

				island.JointCount += 1
			}
		}

		b2ValidateIsland(world, islandId)
	}
}

///////////////////////////////////////////////////////////////////////////////
// Sleep
///////////////////////////////////////////////////////////////////////////////

// Put an awake island to sleep. Fails if the island has pending constraint
// removals, because it may no longer be connected and must be split first.
func b2TrySleepIsland(world *b2World, islandId int32) bool {
	island := world.islands.Get(islandId)
	B2Assert(island.AwakeIndex != B2_nullIndex)

	// cannot put an island to sleep while it has a pending split
	if island.ConstraintRemoveCount > 0 {
		return false
	}

	bodyId := island.HeadBody
	for bodyId != B2_nullIndex {
		body := world.bodies.Get(bodyId)

		if body.AwakeIndex != B2_nullIndex {
			world.removeAwakeBody(body)
		}

		body.LinearVelocity = B2Vec2_zero
		body.AngularVelocity = 0.0
		body.Force = B2Vec2_zero
		body.Torque = 0.0
		body.IsSpeedCapped = false

		// Report the body as asleep if it moved this step
		moveIndex := body.BodyMoveIndex
		if moveIndex != B2_nullIndex && int(moveIndex) < len(world.bodyMoveEventArray) {
			moveEvent := &world.bodyMoveEventArray[moveIndex]
			if B2BodyIdEquals(moveEvent.BodyId, b2MakeBodyId(world, bodyId)) {
				moveEvent.FellAsleep = true
			}
		}

		bodyId = body.IslandNext
	}

	contactId := island.HeadContact
	for contactId != B2_nullIndex {
		contact := world.contacts.Get(contactId)
		if contact.ColorIndex != B2_nullIndex {
			bodyA := world.bodies.Get(contact.Edges[0].BodyId)
			bodyB := world.bodies.Get(contact.Edges[1].BodyId)
			b2RemoveContactFromGraph(world, bodyA, bodyB, contact)
		}
		contactId = contact.IslandNext
	}

	jointId := island.HeadJoint
	for jointId != B2_nullIndex {
		joint := world.joints.Get(jointId)
		if joint.ColorIndex != B2_nullIndex {
			bodyA := world.bodies.Get(joint.Edges[0].BodyId)
			bodyB := world.bodies.Get(joint.Edges[1].BodyId)
			b2RemoveJointFromGraph(world, bodyA, bodyB, joint)
		}
		jointId = joint.IslandNext
	}

	world.removeAwakeIsland(island)
	return true
}

// Wake a sleeping island. The bodies rejoin the awake set and the constraints rejoin the graph.
func b2WakeIsland(world *b2World, islandId int32) {
	island := world.islands.Get(islandId)
	if island.AwakeIndex != B2_nullIndex {
		return
	}

	island.AwakeIndex = int32(len(world.awakeIslands))
	world.awakeIslands = append(world.awakeIslands, islandId)

	bodyId := island.HeadBody
	for bodyId != B2_nullIndex {
		body := world.bodies.Get(bodyId)
		body.SleepTime = 0.0
		if body.AwakeIndex == B2_nullIndex {
			world.addAwakeBody(body)
		}
		bodyId = body.IslandNext
	}

	contactId := island.HeadContact
	for contactId != B2_nullIndex {
		contact := world.contacts.Get(contactId)
		if contact.ColorIndex == B2_nullIndex {
			b2AddContactToGraph(world, contact)
		}
		contactId = contact.IslandNext
	}

	jointId := island.HeadJoint
	for jointId != B2_nullIndex {
		joint := world.joints.Get(jointId)
		if joint.ColorIndex == B2_nullIndex {
			b2CreateJointInGraph(world, joint)
		}
		jointId = joint.IslandNext
	}
}

///////////////////////////////////////////////////////////////////////////////
// Validation
///////////////////////////////////////////////////////////////////////////////

// Checks the island linked lists against their counts. Only runs when B2_validate is set.
func b2ValidateIsland(world *b2World, islandId int32) {
	if B2_validate == false {
		return
	}

	island := world.islands.Get(islandId)
	B2Assert(island.Id == islandId)
	B2Assert(island.HeadBody != B2_nullIndex)
	B2Assert(island.TailBody != B2_nullIndex)
	B2Assert(island.BodyCount > 0)

	if island.BodyCount == 1 {
		B2Assert(island.HeadBody == island.TailBody)
	}

	count := 0
	bodyId := island.HeadBody
	for bodyId != B2_nullIndex {
		body := world.bodies.Get(bodyId)
		B2Assert(body.IslandId == islandId)
		B2Assert(body.Type == B2BodyType.E_dynamicBody)
		count += 1

		if count == island.BodyCount {
			B2Assert(bodyId == island.TailBody)
		}

		bodyId = body.IslandNext
	}
	B2Assert(count == island.BodyCount)

	if island.HeadContact != B2_nullIndex {
		B2Assert(island.TailContact != B2_nullIndex)
		B2Assert(island.ContactCount > 0)

		count = 0
		contactId := island.HeadContact
		for contactId != B2_nullIndex {
			contact := world.contacts.Get(contactId)
			B2Assert(contact.IslandId == islandId)
			B2Assert(contact.Flags&B2ContactFlags.E_touchingFlag != 0)
			B2Assert(contact.Flags&B2ContactFlags.E_sensorFlag == 0)
			count += 1

			if count == island.ContactCount {
				B2Assert(contactId == island.TailContact)
			}

			contactId = contact.IslandNext
		}
		B2Assert(count == island.ContactCount)
	} else {
		B2Assert(island.TailContact == B2_nullIndex)
		B2Assert(island.ContactCount == 0)
	}

	if island.HeadJoint != B2_nullIndex {
		B2Assert(island.TailJoint != B2_nullIndex)
		B2Assert(island.JointCount > 0)

		count = 0
		jointId := island.HeadJoint
		for jointId != B2_nullIndex {
			joint := world.joints.Get(jointId)
			B2Assert(joint.IslandId == islandId)
			count += 1

			if count == island.JointCount {
				B2Assert(jointId == island.TailJoint)
			}

			jointId = joint.IslandNext
		}
		B2Assert(count == island.JointCount)
	} else {
		B2Assert(island.TailJoint == B2_nullIndex)
		B2Assert(island.JointCount == 0)
	}
}

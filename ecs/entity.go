package ecs

import "strconv"

// Entity is a handle: the low 32 bits are the 1-based slot, the high 32 the
// slot's generation. Destroying an entity bumps the generation, so handles
// kept by the session or a camera target go stale instead of aliasing a
// recycled slot.
type Entity uint64

// NoEntity marks an unbound handle, such as a roster member waiting to spawn.
const NoEntity Entity = 0

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

// String prints slot and generation ("7.2") so log lines stay readable.
func (e Entity) String() string {
	if e == NoEntity {
		return "none"
	}
	return strconv.FormatUint(uint64(e.id()), 10) + "." + strconv.FormatUint(uint64(e.generation()), 10)
}

// Valid reports whether e was ever issued by a world. It says nothing about
// liveness; use IsAlive for that.
func (e Entity) Valid() bool {
	return e.id() != 0 && e.generation() != 0
}

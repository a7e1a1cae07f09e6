package component

import "fmt"

// Collision categories. Every collider belongs to exactly the categories its
// CollisionLayer lists; queries filter on these bits instead of names.
const (
	CategoryObstacle uint32 = 1 << iota
	CategoryPlayer
	CategoryEnemy
	CategoryKey
	CategoryLockedDoor
	CategoryTreasure

	CategoryAll uint32 = ^uint32(0)
)

// CollisionLayer declares a collider's categories and the categories it
// physically collides with.
type CollisionLayer struct {
	// Category is zero for "obstacle".
	Category uint32
	// Mask is zero for "everything".
	Mask uint32
}

// Resolved returns the category and mask with zero values replaced by their
// defaults.
func (c CollisionLayer) Resolved() (category, mask uint32) {
	category, mask = c.Category, c.Mask
	if category == 0 {
		category = CategoryObstacle
	}
	if mask == 0 {
		mask = CategoryAll
	}
	return category, mask
}

var CollisionLayerComponent = NewComponent[CollisionLayer]()

var categoryNames = map[string]uint32{
	"obstacle":    CategoryObstacle,
	"player":      CategoryPlayer,
	"enemy":       CategoryEnemy,
	"key":         CategoryKey,
	"locked_door": CategoryLockedDoor,
	"treasure":    CategoryTreasure,
	"all":         CategoryAll,
}

// ParseCategories ORs named categories into a bit set.
func ParseCategories(names []string) (uint32, error) {
	var bits uint32
	for _, name := range names {
		v, ok := categoryNames[name]
		if !ok {
			return 0, fmt.Errorf("component: unknown collision category %q", name)
		}
		bits |= v
	}
	return bits, nil
}

package component

// Prefab records the prefab file an entity was built from so tunables can
// be reapplied when the file changes.
type Prefab struct {
	Path string
}

var PrefabComponent = NewComponent[Prefab]()

package component

type Camera struct {
	// Smoothness is the per-tick lerp factor toward the follow point.
	Smoothness float64
	Zoom       float64
	// Target is the followed entity; zero follows the centroid of living
	// players.
	Target uint64
}

var CameraComponent = NewComponent[Camera]()

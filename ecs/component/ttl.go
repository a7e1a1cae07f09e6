package component

// TTL destroys the entity after Seconds of simulated time.
type TTL struct {
	Seconds float64
}

var TTLComponent = NewComponent[TTL]()

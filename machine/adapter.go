package machine

// An Adapter exposes the read side of a controller connection.
type Adapter interface {
	Probes() []ProbeResult
	ResetProbes()

	State() <-chan State
	CurrentState() State
}

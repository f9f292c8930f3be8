package domain

// AppMode is the coarse situational state derived from the user's location.
type AppMode string

const (
	ModeCity        AppMode = "city"
	ModeApproaching AppMode = "approaching"
	ModeRemote      AppMode = "remote"
	ModeUnknown     AppMode = "unknown"
)

// MovementMode is derived from the reported speed.
type MovementMode string

const (
	MovementStationary MovementMode = "stationary"
	MovementWalking    MovementMode = "walking"
	MovementBike       MovementMode = "bike"
	MovementCar        MovementMode = "car"
	MovementFast       MovementMode = "fast"
)

package core

// Well-known entity names. Habitat and AYSE are the two pilotable craft;
// which one is under pilot control depends on docking state.
const (
	Habitat = "Habitat"
	AYSE    = "AYSE"
	Earth   = "Earth"
	Moon    = "Moon"
	Sun     = "Sun"
)

// Vector is a 2D vector in the simulation plane
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Entity is the structured record of one simulated body at one instant.
// Name through AtmosphereScaling never change during simulation; the
// remaining fields are advanced every tick by the integrator.
type Entity struct {
	Name                string  `json:"name"`
	Mass                float64 `json:"mass"`
	Radius              float64 `json:"r"`
	Artificial          bool    `json:"artificial"`
	AtmosphereThickness float64 `json:"atmosphereThickness"`
	AtmosphereScaling   float64 `json:"atmosphereScaling"`

	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	Heading  float64 `json:"heading"`
	Spin     float64 `json:"spin"`
	Fuel     float64 `json:"fuel"`
	Throttle float64 `json:"throttle"`
	LandedOn string  `json:"landedOn"` // name of the entity landed on, "" if not landed
	Broken   bool    `json:"broken"`
}

// Pos returns the position as a 2-vector.
func (e *Entity) Pos() Vector {
	return Vector{X: e.X, Y: e.Y}
}

// Vel returns the velocity as a 2-vector.
func (e *Entity) Vel() Vector {
	return Vector{X: e.VX, Y: e.VY}
}

// Dockable reports whether other craft can dock with this entity.
func (e *Entity) Dockable() bool {
	return e.Name == AYSE
}

// Landed reports whether the entity is landed on (or docked to) another entity.
func (e *Entity) Landed() bool {
	return e.LandedOn != ""
}

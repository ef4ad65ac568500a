package core

// Solid rocket booster states. SRBTime holds one of the sentinels below or
// the remaining burn time in seconds.
const (
	SRBFull     = -1.0
	SRBEmpty    = -2.0
	SRBBurnTime = 120.0 // seconds of thrust from ignition
)

// Navmode is the autopilot navigation mode
type Navmode uint8

const (
	NavmodeManual Navmode = iota
	NavmodeCCWPrograde
	NavmodeCWRetrograde
	NavmodeDepartReference
	NavmodeApproachTarget
	NavmodeProTargVelocity
	NavmodeAntiTargVelocity
)

var navmodeNames = map[Navmode]string{
	NavmodeManual:           "Manual",
	NavmodeCCWPrograde:      "CCW Prograde",
	NavmodeCWRetrograde:     "CW Retrograde",
	NavmodeDepartReference:  "Depart Reference",
	NavmodeApproachTarget:   "Approach Target",
	NavmodeProTargVelocity:  "Pro Targ Velocity",
	NavmodeAntiTargVelocity: "Anti Targ Velocity",
}

func (n Navmode) String() string {
	if name, ok := navmodeNames[n]; ok {
		return name
	}
	return "Unknown"
}

// NavmodeFromString resolves a navmode display name. Returns false if the
// name is not a known navmode.
func NavmodeFromString(name string) (Navmode, bool) {
	for mode, n := range navmodeNames {
		if n == name {
			return mode, true
		}
	}
	return NavmodeManual, false
}

// Snapshot is the complete structured description of the simulated system
// at one instant: every entity record plus the scalar globals. This is the
// shape that is persisted and sent over the network. Entity order defines
// the stable integer indices used by the flat state vector.
type Snapshot struct {
	Timestamp         float64 `json:"timestamp"`
	SRBTime           float64 `json:"srbTime"`  // solid rocket booster burn time remaining
	TimeAcc           float64 `json:"timeAcc"`  // time acceleration factor, e.g. 1 or 50
	ParachuteDeployed bool    `json:"parachuteDeployed"`
	Reference         string  `json:"reference"` // name of the reference-frame entity
	Target            string  `json:"target"`    // name of the targeted entity
	Navmode           Navmode `json:"navmode"`

	Entities []Entity `json:"entities"`
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() Snapshot {
	out := *s
	out.Entities = make([]Entity, len(s.Entities))
	copy(out.Entities, s.Entities)
	return out
}

// EntityByName returns a pointer to the entity with the given name, or nil.
func (s *Snapshot) EntityByName(name string) *Entity {
	for i := range s.Entities {
		if s.Entities[i].Name == name {
			return &s.Entities[i]
		}
	}
	return nil
}

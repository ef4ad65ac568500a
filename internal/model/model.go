package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Save{},
	&SaveEntity{},
}

// Save is one named saved game: the scalar globals plus one SaveEntity row
// per simulated body. Saving under an existing name replaces the old rows.
type Save struct {
	gorm.Model
	Name              string         `json:"name" gorm:"size:127;uniqueIndex:idx_save_name"`
	Timestamp         float64        `json:"timestamp"` // simulation time of the snapshot
	SRBTime           float64        `json:"srbTime"`
	TimeAcc           float64        `json:"timeAcc"`
	ParachuteDeployed bool           `json:"parachuteDeployed" gorm:"default:false"`
	Reference         string         `json:"reference" gorm:"size:64"`
	Target            string         `json:"target" gorm:"size:64"`
	Navmode           uint8          `json:"navmode" gorm:"default:0"`
	SavedAt           time.Time      `json:"savedAt"`
	Meta              datatypes.JSON `json:"meta" gorm:"type:jsonb;default:'{}'"` // free-form provenance (client version, pilot notes)

	Entities []SaveEntity `json:"entities" gorm:"foreignkey:SaveID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (*Save) TableName() string {
	return "saves"
}

// SaveEntity is one simulated body within a save. Slot preserves the entity
// order of the snapshot, which fixes the indices of the flat state vector.
type SaveEntity struct {
	ID     uint `json:"id" gorm:"primarykey;autoIncrement;"`
	SaveID uint `json:"saveId" gorm:"index:idx_saveentity_save_id"`
	Slot   int  `json:"slot"`

	Name                string  `json:"name" gorm:"size:64"`
	Mass                float64 `json:"mass"`
	Radius              float64 `json:"r"`
	Artificial          bool    `json:"artificial" gorm:"default:false"`
	AtmosphereThickness float64 `json:"atmosphereThickness"`
	AtmosphereScaling   float64 `json:"atmosphereScaling"`

	Position geom.Point `json:"position"` // position in the simulation plane
	VX       float64    `json:"vx"`
	VY       float64    `json:"vy"`
	Heading  float64    `json:"heading"`
	Spin     float64    `json:"spin"`
	Fuel     float64    `json:"fuel"`
	Throttle float64    `json:"throttle"`
	LandedOn string     `json:"landedOn" gorm:"size:64"` // empty if not landed
	Broken   bool       `json:"broken" gorm:"default:false"`
}

func (*SaveEntity) TableName() string {
	return "save_entities"
}

// Package convert provides functions to convert between GORM models and core snapshots
package convert

import (
	"sort"
	"time"

	"github.com/Pugzilla88/orbitx/internal/model"
	"github.com/Pugzilla88/orbitx/pkg/core"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// vectorToPoint converts a core.Vector to a geom.Point
func vectorToPoint(v core.Vector) geom.Point {
	coords := geom.Coordinates{XY: geom.XY{X: v.X, Y: v.Y}}
	return geom.NewPoint(coords)
}

// pointToVector converts a geom.Point to a core.Vector
func pointToVector(p geom.Point) core.Vector {
	coord, ok := p.Coordinates()
	if !ok {
		return core.Vector{}
	}
	return core.Vector{X: coord.XY.X, Y: coord.XY.Y}
}

// SnapshotToSave converts a core.Snapshot to a GORM model.Save.
// Snapshot entity order maps to SaveEntity.Slot.
func SnapshotToSave(name string, snap *core.Snapshot) model.Save {
	save := model.Save{
		Name:              name,
		Timestamp:         snap.Timestamp,
		SRBTime:           snap.SRBTime,
		TimeAcc:           snap.TimeAcc,
		ParachuteDeployed: snap.ParachuteDeployed,
		Reference:         snap.Reference,
		Target:            snap.Target,
		Navmode:           uint8(snap.Navmode),
		SavedAt:           time.Now(),
		Meta:              datatypes.JSON("{}"),
		Entities:          make([]model.SaveEntity, 0, len(snap.Entities)),
	}

	for i, e := range snap.Entities {
		save.Entities = append(save.Entities, model.SaveEntity{
			Slot:                i,
			Name:                e.Name,
			Mass:                e.Mass,
			Radius:              e.Radius,
			Artificial:          e.Artificial,
			AtmosphereThickness: e.AtmosphereThickness,
			AtmosphereScaling:   e.AtmosphereScaling,
			Position:            vectorToPoint(e.Pos()),
			VX:                  e.VX,
			VY:                  e.VY,
			Heading:             e.Heading,
			Spin:                e.Spin,
			Fuel:                e.Fuel,
			Throttle:            e.Throttle,
			LandedOn:            e.LandedOn,
			Broken:              e.Broken,
		})
	}

	return save
}

// SaveToSnapshot converts a GORM model.Save back to a core.Snapshot.
// Entities are ordered by Slot regardless of row order.
func SaveToSnapshot(save *model.Save) core.Snapshot {
	snap := core.Snapshot{
		Timestamp:         save.Timestamp,
		SRBTime:           save.SRBTime,
		TimeAcc:           save.TimeAcc,
		ParachuteDeployed: save.ParachuteDeployed,
		Reference:         save.Reference,
		Target:            save.Target,
		Navmode:           core.Navmode(save.Navmode),
		Entities:          make([]core.Entity, 0, len(save.Entities)),
	}

	rows := make([]model.SaveEntity, len(save.Entities))
	copy(rows, save.Entities)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Slot < rows[j].Slot })

	for _, row := range rows {
		pos := pointToVector(row.Position)
		snap.Entities = append(snap.Entities, core.Entity{
			Name:                row.Name,
			Mass:                row.Mass,
			Radius:              row.Radius,
			Artificial:          row.Artificial,
			AtmosphereThickness: row.AtmosphereThickness,
			AtmosphereScaling:   row.AtmosphereScaling,
			X:                   pos.X,
			Y:                   pos.Y,
			VX:                  row.VX,
			VY:                  row.VY,
			Heading:             row.Heading,
			Spin:                row.Spin,
			Fuel:                row.Fuel,
			Throttle:            row.Throttle,
			LandedOn:            row.LandedOn,
			Broken:              row.Broken,
		})
	}

	return snap
}

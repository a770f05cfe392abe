package massdist

import (
	"math"

	"github.com/lesves/galaxy/internal/config"
	"github.com/lesves/galaxy/internal/engine"
	"github.com/lesves/galaxy/internal/spatial"
)

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// transform applies the distribution's configured rotation and offset to
// the bodies appended at or after index from. Rotation is 3D only: the
// (x, y, z) Euler angles are composed as Rz·Ry·Rx and applied to both
// positions and velocities; the offset then shifts positions.
func transform(cfg config.DistributionConfig, e *engine.Engine, from int) {
	if e.Dim >= 3 {
		rot := cfg.Rotation
		if rot.X != 0 || rot.Y != 0 || rot.Z != 0 {
			rmat := spatial.Euler(deg2rad(rot.X), deg2rad(rot.Y), deg2rad(rot.Z))
			for i := from; i < len(e.Bodies); i++ {
				e.Bodies[i].Pos = rmat.Apply(e.Bodies[i].Pos)
				e.Bodies[i].Vel = rmat.Apply(e.Bodies[i].Vel)
			}
		}
	}

	offset := cfg.Offset.Vector(e.Dim)
	for i := from; i < len(e.Bodies); i++ {
		e.Bodies[i].Pos.AddInPlace(offset)
	}
}

package entity

import (
	"math"

	"github.com/StoreStation/vibecraft773/pkg/world"
)

const ddaEpsilon = 1e-9

// BlockSolid is satisfied by world.BlockManager; kept as an interface so the
// collision query can be exercised without a live BlockManager in tests.
type BlockSolid interface {
	IsBlockSolid(x, y, z int32) bool
}

func floorToBlock(v float64) int32 {
	return int32(math.Floor(v))
}

func sign(v float64) int32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// slabIntersect runs the slab method for segment A->B against the unit block
// box at (bx, by, bz), per spec.md §4.7.
func slabIntersect(a, b Vec3, bx, by, bz int32) bool {
	d := Vec3{b.X - a.X, b.Y - a.Y, b.Z - a.Z}
	tMin, tMax := 0.0, 1.0

	axis := func(ai, di float64, bi int32) bool {
		lo, hi := float64(bi), float64(bi)+1
		if math.Abs(di) < ddaEpsilon {
			return ai >= lo && ai < hi
		}
		t1 := (lo - ai) / di
		t2 := (hi - ai) / di
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		return tMin <= tMax
	}

	if !axis(a.X, d.X, bx) {
		return false
	}
	if !axis(a.Y, d.Y, by) {
		return false
	}
	if !axis(a.Z, d.Z, bz) {
		return false
	}
	return tMin <= tMax
}

// sweepLine walks the 3D DDA traversal from a to b, returning whether the
// segment hit a solid block and the set of block coordinates visited (used
// to seed the collision cache's invalidation set).
func sweepLine(bs BlockSolid, a, b Vec3) (hit bool, visited map[world.BlockPos]struct{}) {
	visited = make(map[world.BlockPos]struct{})

	d := Vec3{b.X - a.X, b.Y - a.Y, b.Z - a.Z}
	length := math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
	if length < ddaEpsilon {
		bx, by, bz := floorToBlock(a.X), floorToBlock(a.Y), floorToBlock(a.Z)
		pos := world.BlockPos{X: bx, Y: by, Z: bz}
		visited[pos] = struct{}{}
		if bs.IsBlockSolid(bx, by, bz) {
			return true, visited
		}
		return false, visited
	}

	bx, by, bz := floorToBlock(a.X), floorToBlock(a.Y), floorToBlock(a.Z)
	endX, endY, endZ := floorToBlock(b.X), floorToBlock(b.Y), floorToBlock(b.Z)

	stepX, stepY, stepZ := sign(d.X), sign(d.Y), sign(d.Z)

	nextT := func(startBlock int32, origin, di float64, step int32) float64 {
		if step == 0 {
			return math.Inf(1)
		}
		var boundary float64
		if step > 0 {
			boundary = float64(startBlock) + 1
		} else {
			boundary = float64(startBlock)
		}
		return (boundary - origin) / di
	}
	dtFor := func(di float64) float64 {
		if di == 0 {
			return math.Inf(1)
		}
		return math.Abs(1 / di)
	}

	tNextX := nextT(bx, a.X, d.X, stepX)
	tNextY := nextT(by, a.Y, d.Y, stepY)
	tNextZ := nextT(bz, a.Z, d.Z, stepZ)
	dtX, dtY, dtZ := dtFor(d.X), dtFor(d.Y), dtFor(d.Z)

	maxSteps := int(math.Abs(float64(endX-bx))+math.Abs(float64(endY-by))+math.Abs(float64(endZ-bz))) + 1

	for i := 0; i <= maxSteps; i++ {
		pos := world.BlockPos{X: bx, Y: by, Z: bz}
		visited[pos] = struct{}{}
		if bs.IsBlockSolid(bx, by, bz) && slabIntersect(a, b, bx, by, bz) {
			return true, visited
		}

		if bx == endX && by == endY && bz == endZ {
			break
		}

		switch {
		case tNextX <= tNextY && tNextX <= tNextZ:
			bx += stepX
			tNextX += dtX
		case tNextY <= tNextX && tNextY <= tNextZ:
			by += stepY
			tNextY += dtY
		default:
			bz += stepZ
			tNextZ += dtZ
		}
	}

	return false, visited
}

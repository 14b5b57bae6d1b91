package world

import (
	"math"
	"sync"
)

// GeneratorConfig holds the seed and the nine noise parameters named in spec.md §3.
type GeneratorConfig struct {
	Seed int64

	BaseScale       float64
	BaseAmplitude   float64
	BaseHeight      float64
	Octaves         int
	Persistence     float64
	Lacunarity      float64
	MountainScale   float64
	MountainAmp     float64
	MountainThresh  float64
}

// DefaultGeneratorConfig returns the parameters used when a server is started
// without overriding them.
func DefaultGeneratorConfig(seed int64) GeneratorConfig {
	return GeneratorConfig{
		Seed:           seed,
		BaseScale:      0.01,
		BaseAmplitude:  24,
		BaseHeight:     68,
		Octaves:        4,
		Persistence:    0.5,
		Lacunarity:     2.0,
		MountainScale:  0.004,
		MountainAmp:    90,
		MountainThresh: 0.55,
	}
}

// SurfaceKind selects the block placed at a column's surface level.
type SurfaceKind int

const (
	SurfaceGrass SurfaceKind = iota
	SurfaceDirtSlope
	SurfaceWhiteWool
	SurfaceYellowWool
)

// Generator produces deterministic terrain from a seed: a multi-octave base
// height noise, a separate mountain mask noise, and an append-only per-chunk
// height-map cache (spec.md §3, §4.5).
type Generator struct {
	cfg     GeneratorConfig
	base    *perlin
	mountain *perlin

	seedOffXBase, seedOffZBase float64
	seedOffXMtn, seedOffZMtn   float64

	cacheMu sync.RWMutex
	cache   map[ChunkPos][256]int32
}

// NewGenerator builds a Generator from cfg. Seed offsets are distinct integer
// multiples of the seed so that changing the seed perturbs both noise fields.
func NewGenerator(cfg GeneratorConfig) *Generator {
	return &Generator{
		cfg:          cfg,
		base:         newPerlin(cfg.Seed),
		mountain:     newPerlin(cfg.Seed + 7919),
		seedOffXBase: float64(cfg.Seed%1_000_003) * 1,
		seedOffZBase: float64(cfg.Seed%1_000_003) * 2,
		seedOffXMtn:  float64(cfg.Seed%1_000_003) * 3,
		seedOffZMtn:  float64(cfg.Seed%1_000_003) * 4,
		cache:        make(map[ChunkPos][256]int32),
	}
}

// heightIndex is the per-column index into a 16x16 height map: z-major, x-minor.
func heightIndex(lx, lz int32) int32 { return lz*16 + lx }

// columnHeight computes spec.md §4.5 steps 1-4 for one world column.
func (g *Generator) columnHeight(wx, wz int32) float64 {
	c := g.cfg

	nBase := g.base.octaveNoise2D(
		float64(wx)*c.BaseScale+g.seedOffXBase,
		float64(wz)*c.BaseScale+g.seedOffZBase,
		c.Octaves, c.Lacunarity, c.Persistence,
	)

	nMtn := g.mountain.octaveNoise2D(
		float64(wx)*c.MountainScale+g.seedOffXMtn,
		float64(wz)*c.MountainScale+g.seedOffZMtn,
		2, c.Lacunarity, c.Persistence,
	)
	nMtn = (nMtn + 1) / 2 // remap [-1,1] -> [0,1]

	amplitude := c.BaseAmplitude
	if nMtn > c.MountainThresh {
		f := (nMtn - c.MountainThresh) / (1 - c.MountainThresh)
		amplitude = c.BaseAmplitude + f*c.MountainAmp
	}

	height := c.BaseHeight + math.Round(nBase*amplitude)
	if height < 0 {
		height = 0
	}
	if height > 255 {
		height = 255
	}
	return height
}

// slopeAt estimates the local height gradient via central differences, used
// to pick between a grass and a bare-dirt surface on steep ground.
func (g *Generator) slopeAt(wx, wz int32) float64 {
	hx1 := g.columnHeight(wx+1, wz)
	hx0 := g.columnHeight(wx-1, wz)
	hz1 := g.columnHeight(wx, wz+1)
	hz0 := g.columnHeight(wx, wz-1)
	return (math.Abs(hx1-hx0) + math.Abs(hz1-hz0)) / 2
}

// SurfaceProfile returns the surface height and surface-block selection for
// one world column, per spec.md §4.5's closing paragraph.
func (g *Generator) SurfaceProfile(wx, wz int32) (height int32, kind SurfaceKind) {
	h := g.columnHeight(wx, wz)
	height = int32(h)

	switch {
	case h >= 90:
		kind = SurfaceWhiteWool
	case h <= 64:
		kind = SurfaceYellowWool
	default:
		if g.slopeAt(wx, wz) >= 4 {
			kind = SurfaceDirtSlope
		} else {
			kind = SurfaceGrass
		}
	}
	return height, kind
}

// HeightMap returns the cached 16x16 per-column surface height for chunk
// (cx, cz), computing and storing it on first request. The cache is
// append-only and safe for concurrent readers/writers.
func (g *Generator) HeightMap(cx, cz int32) [256]int32 {
	key := ChunkPos{cx, cz}

	g.cacheMu.RLock()
	if hm, ok := g.cache[key]; ok {
		g.cacheMu.RUnlock()
		return hm
	}
	g.cacheMu.RUnlock()

	var hm [256]int32
	baseX, baseZ := cx*SectionSize, cz*SectionSize
	for lz := int32(0); lz < 16; lz++ {
		for lx := int32(0); lx < 16; lx++ {
			h, _ := g.SurfaceProfile(baseX+lx, baseZ+lz)
			hm[heightIndex(lx, lz)] = h
		}
	}

	g.cacheMu.Lock()
	if existing, ok := g.cache[key]; ok {
		g.cacheMu.Unlock()
		return existing
	}
	g.cache[key] = hm
	g.cacheMu.Unlock()
	return hm
}

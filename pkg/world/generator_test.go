package world

import "testing"

func TestSurfaceProfileInRange(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig(1))
	for wx := int32(-40); wx < 40; wx += 7 {
		for wz := int32(-40); wz < 40; wz += 11 {
			h, kind := g.SurfaceProfile(wx, wz)
			if h < 0 || h > 255 {
				t.Fatalf("SurfaceProfile(%d, %d) height = %d out of range", wx, wz, h)
			}
			switch kind {
			case SurfaceGrass, SurfaceDirtSlope, SurfaceWhiteWool, SurfaceYellowWool:
			default:
				t.Fatalf("SurfaceProfile(%d, %d) unknown kind %v", wx, wz, kind)
			}
		}
	}
}

func TestSurfaceProfileDeterministic(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig(55))
	h1, k1 := g.SurfaceProfile(100, -200)
	h2, k2 := g.SurfaceProfile(100, -200)
	if h1 != h2 || k1 != k2 {
		t.Errorf("SurfaceProfile not deterministic: (%d,%v) vs (%d,%v)", h1, k1, h2, k2)
	}
}

func TestSurfaceProfileDifferentSeeds(t *testing.T) {
	a := NewGenerator(DefaultGeneratorConfig(1))
	b := NewGenerator(DefaultGeneratorConfig(2))
	diff := false
	for wx := int32(0); wx < 200; wx += 13 {
		ha, _ := a.SurfaceProfile(wx, wx)
		hb, _ := b.SurfaceProfile(wx, wx)
		if ha != hb {
			diff = true
			break
		}
	}
	if !diff {
		t.Errorf("distinct seeds produced identical surface heights")
	}
}

func TestHeightMapCachedAndConsistent(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig(3))
	hm1 := g.HeightMap(2, -1)
	hm2 := g.HeightMap(2, -1)
	if hm1 != hm2 {
		t.Errorf("HeightMap not stable across calls")
	}

	baseX, baseZ := int32(2)*SectionSize, int32(-1)*SectionSize
	h, _ := g.SurfaceProfile(baseX+3, baseZ+5)
	if hm1[heightIndex(3, 5)] != h {
		t.Errorf("HeightMap entry disagrees with SurfaceProfile: %d vs %d", hm1[heightIndex(3, 5)], h)
	}
}

func TestHeightIndexDistinct(t *testing.T) {
	seen := make(map[int32]bool)
	for lz := int32(0); lz < 16; lz++ {
		for lx := int32(0); lx < 16; lx++ {
			idx := heightIndex(lx, lz)
			if idx < 0 || idx >= 256 || seen[idx] {
				t.Fatalf("heightIndex(%d,%d) = %d invalid or duplicate", lx, lz, idx)
			}
			seen[idx] = true
		}
	}
}

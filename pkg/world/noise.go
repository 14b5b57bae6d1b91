package world

import "math"

// perlin implements 2D gradient noise with a seeded permutation table, used
// as the value-noise primitive behind the multi-octave terrain functions in
// generator.go.
type perlin struct {
	perm [512]int
}

func newPerlin(seed int64) *perlin {
	p := &perlin{}

	var base [256]int
	for i := range base {
		base[i] = i
	}

	// Fisher-Yates shuffle driven by a small LCG seeded from the input seed.
	s := seed
	for i := 255; i > 0; i-- {
		s = s*6364136223846793005 + 1442695040888963407
		j := int(uint64(s>>16) % uint64(i+1))
		base[i], base[j] = base[j], base[i]
	}

	for i := 0; i < 256; i++ {
		p.perm[i] = base[i]
		p.perm[i+256] = base[i]
	}
	return p
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func grad2D(hash int, x, y float64) float64 {
	switch hash & 3 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	default:
		return -x - y
	}
}

// noise2D computes 2D gradient noise at (x, y), roughly in [-1, 1].
func (p *perlin) noise2D(x, y float64) float64 {
	xi := int(math.Floor(x)) & 255
	yi := int(math.Floor(y)) & 255

	xf := x - math.Floor(x)
	yf := y - math.Floor(y)

	u := fade(xf)
	v := fade(yf)

	aa := p.perm[p.perm[xi]+yi]
	ab := p.perm[p.perm[xi]+yi+1]
	ba := p.perm[p.perm[xi+1]+yi]
	bb := p.perm[p.perm[xi+1]+yi+1]

	x1 := lerp(u, grad2D(aa, xf, yf), grad2D(ba, xf-1, yf))
	x2 := lerp(u, grad2D(ab, xf, yf-1), grad2D(bb, xf-1, yf-1))
	return lerp(v, x1, x2)
}

// octaveNoise2D sums octaves octaves of noise2D, each octave multiplying
// amplitude by persistence and frequency by lacunarity, normalized by the
// cumulative amplitude so the result stays in [-1, 1].
func (p *perlin) octaveNoise2D(x, y float64, octaves int, lacunarity, persistence float64) float64 {
	var total, amplitude, maxAmplitude float64 = 0, 1, 0
	frequency := 1.0

	for i := 0; i < octaves; i++ {
		total += p.noise2D(x*frequency, y*frequency) * amplitude
		maxAmplitude += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}

	return total / maxAmplitude
}

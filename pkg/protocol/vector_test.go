package protocol

import (
	"bytes"
	"math"
	"testing"
)

func TestLowPrecisionVectorZero(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLowPrecisionVector(&buf, 0, 0, 0); err != nil {
		t.Fatalf("WriteLowPrecisionVector error: %v", err)
	}
	if buf.Len() != 1 || buf.Bytes()[0] != 0 {
		t.Fatalf("zero vector encoding = %v, want single zero byte", buf.Bytes())
	}
	x, y, z, err := ReadLowPrecisionVector(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadLowPrecisionVector error: %v", err)
	}
	if x != 0 || y != 0 || z != 0 {
		t.Errorf("got (%v, %v, %v), want zero", x, y, z)
	}
}

func TestLowPrecisionVectorRoundTrip(t *testing.T) {
	tests := []struct{ x, y, z float64 }{
		{0.1, -0.2, 0.05},
		{1.5, -1.5, 0.0},
		{3.0, 3.9, -3.9},
		{5.5, -6.2, 7.1},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := WriteLowPrecisionVector(&buf, tt.x, tt.y, tt.z); err != nil {
			t.Fatalf("WriteLowPrecisionVector(%v,%v,%v) error: %v", tt.x, tt.y, tt.z, err)
		}
		x, y, z, err := ReadLowPrecisionVector(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("ReadLowPrecisionVector error: %v", err)
		}
		const eps = 0.01
		if math.Abs(x-tt.x) > eps || math.Abs(y-tt.y) > eps || math.Abs(z-tt.z) > eps {
			t.Errorf("round trip (%v,%v,%v) got (%v,%v,%v)", tt.x, tt.y, tt.z, x, y, z)
		}
	}
}

func TestLowPrecisionVectorContinuation(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLowPrecisionVector(&buf, 10.0, -10.0, 0.0); err != nil {
		t.Fatalf("WriteLowPrecisionVector error: %v", err)
	}
	if buf.Len() <= 6 {
		t.Fatalf("expected a trailing continuation VarInt for s >= 4, got %d bytes", buf.Len())
	}
	x, y, z, err := ReadLowPrecisionVector(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadLowPrecisionVector error: %v", err)
	}
	const eps = 0.02
	if math.Abs(x-10.0) > eps || math.Abs(y+10.0) > eps || math.Abs(z) > eps {
		t.Errorf("got (%v,%v,%v)", x, y, z)
	}
}

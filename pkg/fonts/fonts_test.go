package fonts

import "testing"

func TestFace(t *testing.T) {
	for _, size := range []float64{6, 12, 48} {
		f, err := Face(size)
		if err != nil {
			t.Fatalf("Face(%v): %v", size, err)
		}
		if f == nil {
			t.Fatalf("Face(%v) = nil", size)
		}
		if h := f.Metrics().Height; h <= 0 {
			t.Errorf("Face(%v) height = %v", size, h)
		}
	}
	if len(RegularTTF()) == 0 {
		t.Error("embedded font is empty")
	}
}

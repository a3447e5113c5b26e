package params

import (
	"math"
	"strings"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12*math.Max(1, math.Abs(b))
}

func TestDefaultsAreW4800(t *testing.T) {
	if Defaults() != W4800() {
		t.Error("Defaults() differs from W4800()")
	}
}

func TestW4800DerivedValues(t *testing.T) {
	c := W4800()
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"d_um", c.DepthUM, 660e3 / 2.89e6},
		{"mu_um", c.MuUM, 1},
		{"mu_lm", c.MuLM, 50},
		{"mu_plate", c.MuPlate, 100},
		{"mu_sp", c.MuSidePlate, 1000},
		{"rho_mantle", c.RhoMantle, 1},
		{"roc", c.Roc, 250e3 / 2.89e6},
		{"h", c.H, 70e3 / 2.89e6},
		{"hc", c.HCore, 30e3 / 2.89e6},
		{"delta_rho", c.DeltaRho, 80.0 / 3300},
		{"mu_core", c.MuCore, 100},
		{"blob_width", c.BlobWidth, 0},
	}
	for _, tt := range tests {
		if !approx(tt.got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestAsymWNegativeAddsSlabTipAndBlob(t *testing.T) {
	c := AsymWNegative()
	if c.SlabTipAlpha != 45 {
		t.Errorf("SlabTipAlpha = %v, want 45", c.SlabTipAlpha)
	}
	if !approx(c.SlabTipLength, 150e3/2.89e6) {
		t.Errorf("SlabTipLength = %v", c.SlabTipLength)
	}
	if !approx(c.BlobBottom, c.DepthUM) {
		t.Errorf("blob bottom %v should sit at the upper mantle depth %v", c.BlobBottom, c.DepthUM)
	}
	if c.OuterRadius != W4800().OuterRadius {
		t.Error("preset changed the mesh geometry")
	}
}

func TestLayers(t *testing.T) {
	c := W4800()
	l := c.Layers()
	if !approx(l.UpperPlate, 2.22-(c.H-c.HCore)/2) {
		t.Errorf("UpperPlate = %v", l.UpperPlate)
	}
	if !approx(l.CorePlate, l.UpperPlate-c.HCore) {
		t.Errorf("CorePlate = %v", l.CorePlate)
	}
	if !approx(l.LowerPlate, 2.22-c.H) {
		t.Errorf("LowerPlate = %v", l.LowerPlate)
	}
	if !(l.LowerPlate < l.CorePlate && l.CorePlate < l.UpperPlate && l.UpperPlate < c.OuterRadius) {
		t.Errorf("layers out of order: %+v", l)
	}
}

func TestNondimRoundTrip(t *testing.T) {
	c := W4800()
	if got := c.Metres(c.Nondim(660e3)); !approx(got, 660e3) {
		t.Errorf("round trip = %v, want 660000", got)
	}
}

func TestSlabTipPhi(t *testing.T) {
	c := W4800()
	want := (90 - 43.2/2) * math.Pi / 180
	if got := c.SlabTipPhi(0); !approx(got, want) {
		t.Errorf("SlabTipPhi(0) = %v, want %v", got, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Constants)
		wantErr string
	}{
		{"defaults", func(c *Constants) {}, ""},
		{"zero scale", func(c *Constants) { c.DNondim = 0 }, "d_nondim"},
		{"nan radius", func(c *Constants) { c.OuterRadius = math.NaN() }, "outer_radius"},
		{"inverted shell", func(c *Constants) { c.InnerRadius = 3 }, "inner_radius"},
		{"thin plate", func(c *Constants) { c.H = c.HCore / 2 }, "plate thickness"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := W4800()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestSetAndGet(t *testing.T) {
	var c Constants
	for _, name := range []string{"outer-radius", "outer_radius", "OUTER_RADIUS"} {
		if err := c.Set(name, 3.5); err != nil {
			t.Fatalf("Set(%q) error = %v", name, err)
		}
		if got, ok := c.Get(name); !ok || got != 3.5 {
			t.Errorf("Get(%q) = %v, %v", name, got, ok)
		}
	}
	if c.OuterRadius != 3.5 {
		t.Errorf("OuterRadius = %v, want 3.5", c.OuterRadius)
	}
	if err := c.Set("no-such-thing", 1); err == nil {
		t.Error("Set on unknown name should fail")
	}
	if _, ok := c.Get("no-such-thing"); ok {
		t.Error("Get on unknown name should fail")
	}
}

func TestNamesSortedAndComplete(t *testing.T) {
	names := Names()
	if len(names) != len(fieldIndex) {
		t.Fatalf("Names() has %d entries, want %d", len(names), len(fieldIndex))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted at %d: %q >= %q", i, names[i-1], names[i])
		}
	}
}

func TestPresets(t *testing.T) {
	for name, fn := range Presets {
		if err := fn().Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

// Package params holds the physical and numerical constants of a
// subduction model run. The values are consumed by the finite-element
// solver; the mesh generator only takes radii from them.
//
// Lengths are non-dimensionalised by DNondim, densities by RhoNondim and
// viscosities by MuNondim.
package params

import (
	"errors"
	"fmt"
	"math"
)

// Constants is one model configuration.
type Constants struct {
	// Mesh geometry (non-dimensional radii, angles in radians).
	OuterRadius float64 `json:"outer_radius"`
	InnerRadius float64 `json:"inner_radius"`
	Theta       float64 `json:"theta"`
	ThetaCentre float64 `json:"theta_centre"`
	Phi         float64 `json:"phi"`

	// Non-dimensionalisation scales.
	DNondim   float64 `json:"d_nondim"`   // m
	RhoNondim float64 `json:"rho_nondim"` // kg/m^3
	MuNondim  float64 `json:"mu_nondim"`  // Pa s

	// Fixed parameters.
	Gravity       float64 `json:"g"`               // gravitational acceleration
	DepthUM       float64 `json:"d_um"`            // upper mantle depth
	MuUM          float64 `json:"mu_um"`           // upper mantle viscosity
	MuLM          float64 `json:"mu_lm"`           // lower mantle viscosity
	MuPlate       float64 `json:"mu_plate"`        // initial visco-plastic plate viscosity
	MuSidePlate   float64 `json:"mu_sp"`           // side plate viscosity
	RhoMantle     float64 `json:"rho_mantle"`      // reference mantle density
	LonDegs       float64 `json:"lon_degs"`        // slab length, degrees
	SlabTipAlpha  float64 `json:"slab_tip_alpha"`  // slab tip dip, degrees
	SlabTipLength float64 `json:"slab_tip_length"` // slab tip length
	Roc           float64 `json:"roc"`             // radius of curvature
	Beta          float64 `json:"beta"`            // angle of curvature, degrees
	TauYield      float64 `json:"tau_yield"`       // yield stress, Pa

	// Variable parameters.
	LatDegs       float64 `json:"lat_degs"`       // slab width, degrees
	LatSidePlate  float64 `json:"lat_sp"`         // side plate start, degrees
	H             float64 `json:"h"`              // plate thickness
	HCore         float64 `json:"hc"`             // core plate thickness
	DeltaRho      float64 `json:"delta_rho"`      // plate/mantle density difference
	MuCore        float64 `json:"mu_core"`        // core plate viscosity
	BlobWidth     float64 `json:"blob_width"`     // blob width
	BlobThickness float64 `json:"blob_thickness"` // blob thickness (length for a horizontal blob)
	BlobDist      float64 `json:"blob_dist"`      // blob distance E/W from trench
	BlobTop       float64 `json:"blob_top"`       // blob top depth
	BlobBottom    float64 `json:"blob_bottom"`    // blob bottom depth
}

// Defaults returns the W4800 configuration.
func Defaults() Constants {
	return W4800()
}

// W4800 is the symmetric 4800 km wide slab.
func W4800() Constants {
	c := Constants{
		OuterRadius: 2.22,
		InnerRadius: 1.22,
		Theta:       math.Pi / 2,
		ThetaCentre: 0,
		Phi:         math.Pi / 2,

		DNondim:   2.89e6,
		RhoNondim: 3300,
		MuNondim:  2.0e20,

		Gravity:  3982.698885,
		LonDegs:  19.8,
		Beta:     77,
		TauYield: 100e6,

		LatDegs:      43.2,
		LatSidePlate: 21.8,
	}
	c.DepthUM = c.Nondim(660e3)
	c.MuUM = 2.0e20 / c.MuNondim
	c.MuLM = 50 * c.MuUM
	c.MuPlate = 100 * c.MuUM
	c.MuSidePlate = 2.0e23 / c.MuNondim
	c.RhoMantle = 3300 / c.RhoNondim
	c.Roc = c.Nondim(250e3)
	c.H = c.Nondim(70e3)
	c.HCore = c.Nondim(30e3)
	c.DeltaRho = 80 / c.RhoNondim
	c.MuCore = 100 * c.MuUM
	return c
}

// AsymWNegative is the W4800 slab with a dipping slab tip and a dense blob
// beside the trench.
func AsymWNegative() Constants {
	c := W4800()
	c.SlabTipAlpha = 45
	c.SlabTipLength = c.Nondim(150e3)
	c.BlobWidth = c.Nondim(2400e3)
	c.BlobThickness = c.Nondim(400e3)
	c.BlobDist = c.Nondim(500e3)
	c.BlobTop = c.Nondim(590e3)
	c.BlobBottom = c.Nondim(660e3)
	return c
}

// Presets maps preset names to their constructors.
var Presets = map[string]func() Constants{
	"w4800":           W4800,
	"asym-w-negative": AsymWNegative,
}

// Nondim converts a length in metres to model units.
func (c Constants) Nondim(metres float64) float64 {
	return metres / c.DNondim
}

// Metres converts a model length back to metres.
func (c Constants) Metres(l float64) float64 {
	return l * c.DNondim
}

// Layers are the base radii of the plate layers.
type Layers struct {
	UpperPlate float64 `json:"up_radius"`
	CorePlate  float64 `json:"cp_radius"`
	LowerPlate float64 `json:"lp_radius"`
}

// Layers derives the layer radii from the outer radius and thicknesses.
func (c Constants) Layers() Layers {
	up := c.OuterRadius - (c.H-c.HCore)/2
	return Layers{
		UpperPlate: up,
		CorePlate:  up - c.HCore,
		LowerPlate: c.OuterRadius - c.H,
	}
}

// SlabTipPhi returns the colatitude of the slab tip for a slab offset of
// distDegs degrees from the trench, in radians.
func (c Constants) SlabTipPhi(distDegs float64) float64 {
	return (90 - c.LatDegs/2 - distDegs) * math.Pi / 180
}

var errNotPositive = errors.New("must be positive")

// Validate rejects configurations the solver cannot use.
func (c Constants) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"outer_radius", c.OuterRadius},
		{"inner_radius", c.InnerRadius},
		{"d_nondim", c.DNondim},
		{"rho_nondim", c.RhoNondim},
		{"mu_nondim", c.MuNondim},
	} {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("params: %s = %v: %w", f.name, f.v, errNotPositive)
		}
	}
	if c.InnerRadius >= c.OuterRadius {
		return fmt.Errorf("params: inner_radius %v must be below outer_radius %v", c.InnerRadius, c.OuterRadius)
	}
	if c.H < c.HCore {
		return fmt.Errorf("params: plate thickness %v is below core thickness %v", c.H, c.HCore)
	}
	return nil
}

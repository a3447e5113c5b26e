package main

import (
	"os"
	"testing"

	"github.com/chazu/icomesh/pkg/icosphere"
)

// TestE2EW2400Example exercises the full pipeline: script -> engine ->
// requests -> tessellate -> meshes.
func TestE2EW2400Example(t *testing.T) {
	app := NewApp()

	source, err := os.ReadFile("examples/w2400.icomesh")
	if err != nil {
		t.Fatalf("failed to read w2400.icomesh: %v", err)
	}

	result := app.Evaluate(string(source))

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}

	if len(result.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(result.Meshes))
	}

	want := icosphere.Counts(icosphere.Half, 4)
	expectedRadius := map[string]float64{"outer": 2.22, "inner": 1.22}
	for _, m := range result.Meshes {
		r, ok := expectedRadius[m.Name]
		if !ok {
			t.Errorf("unexpected mesh name: %q", m.Name)
			continue
		}
		delete(expectedRadius, m.Name)

		if m.Radius != r {
			t.Errorf("mesh %q: radius %v, want %v", m.Name, m.Radius, r)
		}
		if m.Variant != "half" {
			t.Errorf("mesh %q: variant %q, want half", m.Name, m.Variant)
		}
		if m.Vertices != want.Vertices {
			t.Errorf("mesh %q: %d vertices, want %d", m.Name, m.Vertices, want.Vertices)
		}
		if m.Triangles != want.Faces+want.SemiFaces {
			t.Errorf("mesh %q: %d triangles, want %d", m.Name, m.Triangles, want.Faces+want.SemiFaces)
		}
		if m.Lines != 96 {
			t.Errorf("mesh %q: %d boundary lines, want 96", m.Name, m.Lines)
		}
		if m.Mesh() == nil || m.Mesh().VertexCount() != m.Vertices {
			t.Errorf("mesh %q: geometry missing or inconsistent with summary", m.Name)
		}
	}

	for name := range expectedRadius {
		t.Errorf("missing mesh %q", name)
	}

	if result.Constants == nil || result.Constants.LatDegs != 21.6 {
		t.Errorf("expected constants with lat_degs 21.6, got %+v", result.Constants)
	}
	if result.Layers == nil || !(result.Layers.LowerPlate < result.Layers.UpperPlate) {
		t.Errorf("expected ordered layer radii, got %+v", result.Layers)
	}
}

// TestE2ESphereExample checks the closed-sphere example and its warnings.
func TestE2ESphereExample(t *testing.T) {
	app := NewApp()

	source, err := os.ReadFile("examples/sphere.icomesh")
	if err != nil {
		t.Fatalf("failed to read sphere.icomesh: %v", err)
	}
	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	wantVerts := []int{12, 162, 2562}
	if len(result.Meshes) != len(wantVerts) {
		t.Fatalf("expected %d meshes, got %d", len(wantVerts), len(result.Meshes))
	}
	for i, m := range result.Meshes {
		if m.Vertices != wantVerts[i] {
			t.Errorf("mesh %q: %d vertices, want %d", m.Name, m.Vertices, wantVerts[i])
		}
		if m.Triangles != 2*m.Vertices-4 {
			t.Errorf("mesh %q: Euler check failed: %d triangles for %d vertices", m.Name, m.Triangles, m.Vertices)
		}
	}

	// Unit spheres sit below the default inner radius.
	if len(result.Warnings) != 3 {
		t.Errorf("expected 3 radius warnings, got %v", result.Warnings)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`(mesh :name "test"`)

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

// TestE2ESingleMesh ensures a minimal script renders one mesh.
func TestE2ESingleMesh(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`(mesh :name "core" :shape :half :radius 2 :subdivisions 1)`)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	m := result.Meshes[0]
	if m.Name != "core" {
		t.Errorf("expected mesh name 'core', got %q", m.Name)
	}
	if m.Vertices != 29 || m.Triangles != 44 || m.Lines != 12 {
		t.Errorf("got %d/%d/%d vertices/triangles/lines, want 29/44/12", m.Vertices, m.Triangles, m.Lines)
	}
}

func TestSingleMeshScript(t *testing.T) {
	got := singleMeshScript("outer", icosphere.Half, 2.22, 3, true)
	want := `(mesh :name "outer" :shape :half :radius 2.22 :subdivisions 3 :check true)`
	if got != want {
		t.Errorf("singleMeshScript() = %q, want %q", got, want)
	}

	// Tiny radii must not use exponent notation.
	got = singleMeshScript("m", icosphere.Full, 0.00001, 0, false)
	want = `(mesh :name "m" :shape :full :radius 0.00001 :subdivisions 0 :check false)`
	if got != want {
		t.Errorf("singleMeshScript() = %q, want %q", got, want)
	}
}

func TestScriptSourceFromFlags(t *testing.T) {
	app := NewApp()
	src, err := scriptSource("", "hemisphere", 1.5, 2, "flagged", false)
	if err != nil {
		t.Fatalf("scriptSource failed: %v", err)
	}
	result := app.Evaluate(src)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 1 || result.Meshes[0].Name != "flagged" || result.Meshes[0].Variant != "half" {
		t.Errorf("unexpected meshes: %+v", result.Meshes)
	}

	if _, err := scriptSource("", "cube", 1, 0, "x", false); err == nil {
		t.Error("expected error for an invalid shape")
	}
	if _, err := scriptSource("does/not/exist.icomesh", "full", 1, 0, "x", false); err == nil {
		t.Error("expected error for a missing script")
	}
}

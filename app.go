package main

import (
	"fmt"
	"log"

	"github.com/chazu/icomesh/pkg/engine"
	"github.com/chazu/icomesh/pkg/export"
	"github.com/chazu/icomesh/pkg/mesh"
	"github.com/chazu/icomesh/pkg/params"
	"github.com/chazu/icomesh/pkg/tessellate"
)

// App runs parameter scripts through the engine and the tessellator.
type App struct {
	engine *engine.Engine
}

// MeshData summarises one generated mesh.
type MeshData struct {
	Name         string  `json:"name"`
	Variant      string  `json:"variant"`
	Radius       float64 `json:"radius"`
	Subdivisions int     `json:"subdivisions"`
	Vertices     int     `json:"vertices"`
	Triangles    int     `json:"triangles"`
	Lines        int     `json:"lines"`

	mesh *mesh.Mesh
}

// Mesh returns the generated mesh.
func (d MeshData) Mesh() *mesh.Mesh {
	return d.mesh
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a script.
type EvalResult struct {
	Meshes    []MeshData        `json:"meshes"`
	Constants *params.Constants `json:"constants,omitempty"`
	Layers    *params.Layers    `json:"layers,omitempty"`
	Errors    []EvalErrorData   `json:"errors"`
	Warnings  []EvalErrorData   `json:"warnings"`
}

// NewApp creates a new App with a fresh engine.
func NewApp() *App {
	return &App{
		engine: engine.NewEngine(),
	}
}

// Evaluate takes a parameter script and returns mesh data + errors.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into mesh requests and constants.
	cfg, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	consts := cfg.Constants
	layers := consts.Layers()
	result.Constants = &consts
	result.Layers = &layers
	result.Warnings = append(result.Warnings, requestWarnings(cfg)...)

	// Step 3: Tessellate every request.
	meshes, err := tessellate.TessellateAll(cfg.Requests)
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	// Step 4: Summarise the meshes.
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Name:         m.Name,
			Variant:      m.Variant,
			Radius:       m.Radius,
			Subdivisions: cfg.Requests[i].Subdivisions,
			Vertices:     m.VertexCount(),
			Triangles:    m.TriangleCount(),
			Lines:        m.LineCount(),
			mesh:         m,
		})
	}

	return result
}

// requestWarnings flags requests that are legal but probably unintended.
func requestWarnings(cfg *engine.Config) []EvalErrorData {
	var warnings []EvalErrorData
	c := cfg.Constants
	for _, req := range cfg.Requests {
		if req.Subdivisions < 0 {
			warnings = append(warnings, EvalErrorData{
				Message: fmt.Sprintf("mesh %q: negative subdivisions %d, using the base polyhedron", req.Name, req.Subdivisions),
			})
		}
		if req.Radius < c.InnerRadius || req.Radius > c.OuterRadius {
			warnings = append(warnings, EvalErrorData{
				Message: fmt.Sprintf("mesh %q: radius %g lies outside the model shell [%g, %g]",
					req.Name, req.Radius, c.InnerRadius, c.OuterRadius),
			})
		}
	}
	return warnings
}

// Export writes every mesh of result into dir and returns the paths written.
func (a *App) Export(result EvalResult, dir string, format export.Format) ([]string, error) {
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("export: result has %d error(s): %s", len(result.Errors), result.Errors[0].Message)
	}
	meshes := make([]*mesh.Mesh, 0, len(result.Meshes))
	for _, d := range result.Meshes {
		if d.mesh == nil {
			return nil, fmt.Errorf("export: mesh %q has no geometry", d.Name)
		}
		meshes = append(meshes, d.mesh)
	}
	paths, err := export.SaveAll(dir, format, meshes)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		log.Printf("wrote %s", p)
	}
	return paths, nil
}

// Command icomesh generates icosahedral sphere and hemisphere surface meshes
// for spherical-shell mantle convection models.
//
// Meshes come either from a parameter script:
//
//	icomesh --script examples/w2400.icomesh --out meshes --format msgpack
//
// or from flags describing a single mesh:
//
//	icomesh --shape half --radius 2.22 --subdivisions 6 --name outer
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/chazu/icomesh/pkg/export"
	"github.com/chazu/icomesh/pkg/icosphere"
	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("icomesh: ")

	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

// cliOptions holds the root command's flag values.
type cliOptions struct {
	script       string
	shape        string
	radius       float64
	subdivisions int
	name         string
	check        bool
	out          string
	format       string
}

// newRootCmd builds the icomesh command. Errors are returned to the caller
// rather than printed, so main decides how to report them.
func newRootCmd() *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "icomesh",
		Short: "Generate icosahedral sphere and hemisphere meshes",
		Long: "icomesh refines an icosahedron (or the semi-icosahedron for a hemisphere)\n" +
			"and writes one mesh file per request, described by a parameter script\n" +
			"or by the single-mesh flags.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&opts.script, "script", "", "parameter script; overrides the single-mesh flags")
	fl.StringVar(&opts.shape, "shape", "full", "mesh shape: full or half")
	fl.Float64Var(&opts.radius, "radius", 1, "sphere radius")
	fl.IntVar(&opts.subdivisions, "subdivisions", 0, "refinement depth")
	fl.StringVar(&opts.name, "name", "mesh", "mesh name, used as the file name")
	fl.BoolVar(&opts.check, "check", false, "validate the refined mesh")
	fl.StringVarP(&opts.out, "out", "o", ".", "output directory")
	fl.StringVarP(&opts.format, "format", "f", "json", "output format: json, msgpack or stl")
	cmd.MarkFlagsMutuallyExclusive("script", "shape")
	cmd.MarkFlagsMutuallyExclusive("script", "subdivisions")

	return cmd
}

// run evaluates the script described by opts and exports its meshes.
func run(cmd *cobra.Command, opts cliOptions) error {
	logger := log.New(cmd.ErrOrStderr(), "icomesh: ", 0)

	f, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	source, err := scriptSource(opts.script, opts.shape, opts.radius, opts.subdivisions, opts.name, opts.check)
	if err != nil {
		return err
	}

	app := NewApp()
	result := app.Evaluate(source)
	for _, w := range result.Warnings {
		logger.Printf("warning: %s", w.Message)
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			if e.Line > 0 {
				logger.Printf("error: line %d: %s", e.Line, e.Message)
			} else {
				logger.Printf("error: %s", e.Message)
			}
		}
		return fmt.Errorf("script failed with %d error(s)", len(result.Errors))
	}
	for _, m := range result.Meshes {
		logger.Printf("%s: %s r=%g, %d vertices, %d triangles, %d boundary lines",
			m.Name, m.Variant, m.Radius, m.Vertices, m.Triangles, m.Lines)
	}

	_, err = app.Export(result, opts.out, f)
	return err
}

// scriptSource returns the script to evaluate: the file at path, or a
// one-line script built from the single-mesh flags.
func scriptSource(path, shape string, radius float64, subdivisions int, name string, check bool) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	v, ok := icosphere.ParseVariant(shape)
	if !ok {
		return "", fmt.Errorf("invalid shape %q, expected full or half", shape)
	}
	return singleMeshScript(name, v, radius, subdivisions, check), nil
}

// singleMeshScript renders one mesh request as a parameter script.
func singleMeshScript(name string, v icosphere.Variant, radius float64, subdivisions int, check bool) string {
	return fmt.Sprintf("(mesh :name %q :shape :%s :radius %s :subdivisions %d :check %t)",
		name, v, strconv.FormatFloat(radius, 'f', -1, 64), subdivisions, check)
}

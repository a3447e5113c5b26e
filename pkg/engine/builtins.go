package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/icomesh/pkg/icosphere"
	"github.com/chazu/icomesh/pkg/mesh"
	"github.com/chazu/icomesh/pkg/params"
	"github.com/chazu/icomesh/pkg/tessellate"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/samber/lo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms parameter script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: deg-to-rad -> deg_to_rad
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpRequest wraps a tessellate.Request so `mesh` has something to return.
type sexpRequest struct {
	req tessellate.Request
}

func (r *sexpRequest) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(mesh %q :shape :%s :radius %g :subdivisions %d)",
		r.req.Name, r.req.Variant, r.req.Radius, r.req.Subdivisions)
}
func (r *sexpRequest) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	order      []string
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if _, seen := result.kw[name]; !seen {
			result.order = append(result.order, name)
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
		} else {
			// Keyword at end with no value: treat as flag with nil.
			result.kw[name] = zygo.SexpNull
			i++
		}
	}
	return result
}

// unknown returns the first keyword not in allowed, in source order.
func (a kwArgs) unknown(allowed ...string) (string, bool) {
	for _, name := range a.order {
		if !lo.Contains(allowed, name) {
			return name, true
		}
	}
	return "", false
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer from a SexpInt or a whole SexpFloat.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		if v.Val < math.MinInt32 || v.Val > math.MaxInt32 {
			return 0, fmt.Errorf("integer %d out of range", v.Val)
		}
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val != math.Trunc(v.Val) || math.IsInf(v.Val, 0) {
			return 0, fmt.Errorf("expected integer, got %g", v.Val)
		}
		if v.Val < math.MinInt32 || v.Val > math.MaxInt32 {
			return 0, fmt.Errorf("integer %g out of range", v.Val)
		}
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// checkMeshName rejects names that would not stay a single file name once
// an export extension is appended.
func checkMeshName(s string) error {
	switch {
	case s == "":
		return fmt.Errorf("name must not be empty")
	case s == "." || s == "..":
		return fmt.Errorf("name %q is not a file name", s)
	case strings.ContainsAny(s, `/\`+"\x00"):
		return fmt.Errorf("name %q contains a path separator", s)
	}
	return nil
}

// toBool extracts a boolean; a bare trailing keyword counts as true.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_half) and plain strings ("half").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toVariant converts a keyword or string to an icosphere.Variant.
func toVariant(s zygo.Sexp) (icosphere.Variant, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected shape keyword (:full, :half): %w", err)
	}
	v, ok := icosphere.ParseVariant(name)
	if !ok {
		return 0, fmt.Errorf("invalid shape %q, expected full or half", name)
	}
	return v, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// meshKeywords are the keywords accepted by `mesh`.
var meshKeywords = []string{"name", "shape", "radius", "subdivisions", "check"}

// registerBuiltins installs the parameter script builtins into a zygomys
// environment. The builtins fill in cfg during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, cfg *Config) {

	// -----------------------------------------------------------------------
	// (mesh :name "w2400" :shape :half :radius 2.22 :subdivisions 6 :check)
	// -----------------------------------------------------------------------
	env.AddFunction("mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if kw, ok := pa.unknown(meshKeywords...); ok {
			return zygo.SexpNull, fmt.Errorf("mesh: unknown keyword :%s", kw)
		}
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("mesh: unexpected positional argument %s", pa.positional[0].SexpString(nil))
		}

		req := tessellate.Request{
			Name:    fmt.Sprintf("mesh-%d", len(cfg.Requests)+1),
			Variant: icosphere.Full,
			Radius:  1,
		}

		if v, ok := pa.kw["name"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mesh: name: %w", err)
			}
			if err := checkMeshName(s); err != nil {
				return zygo.SexpNull, fmt.Errorf("mesh: %w", err)
			}
			req.Name = s
		}
		if v, ok := pa.kw["shape"]; ok {
			variant, err := toVariant(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mesh: shape: %w", err)
			}
			req.Variant = variant
		}
		if v, ok := pa.kw["radius"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mesh: radius: %w", err)
			}
			if err := mesh.CheckRadius(f); err != nil {
				return zygo.SexpNull, fmt.Errorf("mesh: radius: %w", err)
			}
			req.Radius = f
		}
		if v, ok := pa.kw["subdivisions"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mesh: subdivisions: %w", err)
			}
			if n > tessellate.MaxSubdivisions {
				return zygo.SexpNull, fmt.Errorf("mesh: subdivisions: %w: %d > %d",
					tessellate.ErrTooDeep, n, tessellate.MaxSubdivisions)
			}
			req.Subdivisions = n
		}
		if v, ok := pa.kw["check"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mesh: check: %w", err)
			}
			req.Check = b
		}

		if lo.ContainsBy(cfg.Requests, func(r tessellate.Request) bool { return r.Name == req.Name }) {
			return zygo.SexpNull, fmt.Errorf("mesh: duplicate mesh name %q", req.Name)
		}
		cfg.Requests = append(cfg.Requests, req)

		return &sexpRequest{req: req}, nil
	})

	// -----------------------------------------------------------------------
	// (constants :preset "w4800" :outer-radius 2.22 :d-nondim 2890000.0)
	// -----------------------------------------------------------------------
	env.AddFunction("constants", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("constants: unexpected positional argument %s", pa.positional[0].SexpString(nil))
		}

		// A preset replaces every constant before the other keywords apply.
		if v, ok := pa.kw["preset"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("constants: preset: %w", err)
			}
			preset, ok := params.Presets[s]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("constants: unknown preset %q", s)
			}
			cfg.Constants = preset()
		}

		for _, kw := range pa.order {
			if kw == "preset" {
				continue
			}
			f, err := toFloat64(pa.kw[kw])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("constants: %s: %w", kw, err)
			}
			if err := cfg.Constants.Set(kw, f); err != nil {
				return zygo.SexpNull, fmt.Errorf("constants: unknown keyword :%s", kw)
			}
		}

		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (constant :outer-radius)
	// -----------------------------------------------------------------------
	env.AddFunction("constant", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("constant requires exactly 1 argument, got %d", len(args))
		}
		kw, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("constant: %w", err)
		}
		f, ok := cfg.Constants.Get(kw)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("constant: unknown constant :%s", kw)
		}
		return &zygo.SexpFloat{Val: f}, nil
	})

	// -----------------------------------------------------------------------
	// (deg-to-rad 90)
	//
	// Registered as "deg_to_rad"; the preprocessor rewrites the kebab-case
	// name.
	// -----------------------------------------------------------------------
	env.AddFunction("deg_to_rad", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("deg-to-rad requires exactly 1 argument, got %d", len(args))
		}
		f, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("deg-to-rad: %w", err)
		}
		return &zygo.SexpFloat{Val: f * math.Pi / 180}, nil
	})
}

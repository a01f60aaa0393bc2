package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/csgtree/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms model source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: intersection-for -> intersection_for
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

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(node %s %s)", n.name, n.id)
	}
	return fmt.Sprintf("(node %s)", n.id)
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a graph.Vec3.
type sexpVec3 struct {
	vec graph.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

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
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as a flag.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// float returns keyword k as a number, or def when absent.
func (a kwArgs) float(fn, k string, def float64) (float64, error) {
	v, ok := a.kw[k]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, k, err)
	}
	return f, nil
}

// flag returns keyword k as a boolean. A keyword without a value is true.
func (a kwArgs) flag(fn, k string) (bool, error) {
	v, ok := a.kw[k]
	if !ok {
		return false, nil
	}
	if v == zygo.SexpNull {
		return true, nil
	}
	b, ok := v.(*zygo.SexpBool)
	if !ok {
		return false, fmt.Errorf("%s: %s: expected true or false, got %s", fn, k, v.SexpString(nil))
	}
	return b.Val, nil
}

// segments reads the facet count from :segments or its OpenSCAD alias :fn.
func (a kwArgs) segments(fn string) (int, error) {
	for _, k := range []string{"segments", "fn"} {
		if v, ok := a.kw[k]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return 0, fmt.Errorf("%s: %s: %w", fn, k, err)
			}
			return int(f), nil
		}
	}
	return 0, nil
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

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_red) and plain strings ("red").
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

// toVec3 extracts a Vec3 from a sexpVec3. A single number is accepted as a
// uniform vector when uniform is set.
func toVec3(s zygo.Sexp, uniform bool) (graph.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	if uniform {
		if f, err := toFloat64(s); err == nil {
			return graph.Vec3{X: f, Y: f, Z: f}, nil
		}
	}
	return graph.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toChildren collects node references from args. Lists and arrays of
// references are flattened and nil is skipped, so the results of map and
// conditionals can be passed straight through.
func toChildren(fn string, args []zygo.Sexp) ([]graph.NodeID, error) {
	var ids []graph.NodeID
	for i, a := range args {
		switch v := a.(type) {
		case *sexpNodeRef:
			ids = append(ids, v.id)
		case *zygo.SexpPair, *zygo.SexpArray, *zygo.SexpSentinel:
			items, err := sexpListToSlice(a)
			if err != nil {
				return nil, fmt.Errorf("%s: child %d: %w", fn, i+1, err)
			}
			nested, err := toChildren(fn, items)
			if err != nil {
				return nil, err
			}
			ids = append(ids, nested...)
		default:
			return nil, fmt.Errorf("%s: child %d: expected node, got %T (%s)", fn, i+1, a, a.SexpString(nil))
		}
	}
	return ids, nil
}

// toColor parses a color name, #rrggbb / #rrggbbaa string or vec3 of
// components in [0, 1].
func toColor(s zygo.Sexp) (graph.Color, error) {
	if v, ok := s.(*sexpVec3); ok {
		return graph.Color{R: v.vec.X, G: v.vec.Y, B: v.vec.Z, A: 1}, nil
	}
	name, err := toKeywordString(s)
	if err != nil {
		return graph.Color{}, err
	}
	return parseColor(name)
}

func parseColor(name string) (graph.Color, error) {
	if c, ok := namedColors[strings.ToLower(name)]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(name, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return graph.Color{}, fmt.Errorf("unknown color %q", name)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return graph.Color{}, fmt.Errorf("invalid color %q: %w", name, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	ch := func(shift uint) float64 { return float64((v>>shift)&0xff) / 255 }
	return graph.Color{R: ch(24), G: ch(16), B: ch(8), A: ch(0)}, nil
}

var namedColors = map[string]graph.Color{
	"black":   {A: 1},
	"white":   {R: 1, G: 1, B: 1, A: 1},
	"red":     {R: 1, A: 1},
	"green":   {G: 128.0 / 255, A: 1},
	"lime":    {G: 1, A: 1},
	"blue":    {B: 1, A: 1},
	"yellow":  {R: 1, G: 1, A: 1},
	"cyan":    {G: 1, B: 1, A: 1},
	"magenta": {R: 1, B: 1, A: 1},
	"orange":  {R: 1, G: 165.0 / 255, A: 1},
	"gray":    {R: 128.0 / 255, G: 128.0 / 255, B: 128.0 / 255, A: 1},
	"grey":    {R: 128.0 / 255, G: 128.0 / 255, B: 128.0 / 255, A: 1},
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the modeling builtins into a zygomys
// environment. Each builtin instantiates one node in s and returns a
// reference to it.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		var c [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: graph.Vec3{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	registerPrimitives(env, s)
	registerOperations(env, s)
	registerTransforms(env, s)
	registerModifiers(env, s)
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

func registerPrimitives(env *zygo.Zlisp, s *scene) {

	// (cube 10) (cube 10 20 30) (cube (vec3 10 20 30) :center true)
	env.AddFunction("cube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		cd := graph.CubeData{Size: graph.Vec3{X: 1, Y: 1, Z: 1}}

		switch len(pa.positional) {
		case 0:
			if v, ok := pa.kw["size"]; ok {
				size, err := toVec3(v, true)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("cube: size: %w", err)
				}
				cd.Size = size
			}
		case 1:
			size, err := toVec3(pa.positional[0], true)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cube: size: %w", err)
			}
			cd.Size = size
		case 3:
			var c [3]float64
			for i, p := range pa.positional {
				f, err := toFloat64(p)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("cube: size: %w", err)
				}
				c[i] = f
			}
			cd.Size = graph.Vec3{X: c[0], Y: c[1], Z: c[2]}
		default:
			return zygo.SexpNull, fmt.Errorf("cube takes a size or three dimensions, got %d arguments", len(pa.positional))
		}

		center, err := pa.flag("cube", "center")
		if err != nil {
			return zygo.SexpNull, err
		}
		cd.Center = center

		return s.add(&graph.Node{Kind: graph.NodePrimitive, Name: "cube", Data: cd}), nil
	})

	// (cylinder :h 10 :r 2) (cylinder 10 2) (cylinder :h 10 :r1 2 :r2 0 :center true)
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		cd := graph.CylinderData{Height: 1, Radius1: 1, Radius2: 1}

		if len(pa.positional) > 2 {
			return zygo.SexpNull, fmt.Errorf("cylinder takes at most a height and a radius, got %d arguments", len(pa.positional))
		}
		var err error
		if len(pa.positional) > 0 {
			if cd.Height, err = toFloat64(pa.positional[0]); err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
			}
		}
		if len(pa.positional) > 1 {
			r, err := toFloat64(pa.positional[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
			}
			cd.Radius1, cd.Radius2 = r, r
		}

		if cd.Height, err = pa.float("cylinder", "h", cd.Height); err != nil {
			return zygo.SexpNull, err
		}
		r, err := pa.float("cylinder", "r", cd.Radius1)
		if err != nil {
			return zygo.SexpNull, err
		}
		if d, ok := pa.kw["d"]; ok {
			f, err := toFloat64(d)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: d: %w", err)
			}
			r = f / 2
		}
		if cd.Radius1, err = pa.float("cylinder", "r1", r); err != nil {
			return zygo.SexpNull, err
		}
		if cd.Radius2, err = pa.float("cylinder", "r2", r); err != nil {
			return zygo.SexpNull, err
		}
		if cd.Center, err = pa.flag("cylinder", "center"); err != nil {
			return zygo.SexpNull, err
		}
		if cd.Segments, err = pa.segments("cylinder"); err != nil {
			return zygo.SexpNull, err
		}

		return s.add(&graph.Node{Kind: graph.NodePrimitive, Name: "cylinder", Data: cd}), nil
	})

	// (sphere 5) (sphere :r 5) (sphere :d 10 :segments 24)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		sd := graph.SphereData{Radius: 1}

		var err error
		if len(pa.positional) > 1 {
			return zygo.SexpNull, fmt.Errorf("sphere takes at most a radius, got %d arguments", len(pa.positional))
		}
		if len(pa.positional) == 1 {
			if sd.Radius, err = toFloat64(pa.positional[0]); err != nil {
				return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
			}
		}
		if sd.Radius, err = pa.float("sphere", "r", sd.Radius); err != nil {
			return zygo.SexpNull, err
		}
		if d, ok := pa.kw["d"]; ok {
			f, err := toFloat64(d)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sphere: d: %w", err)
			}
			sd.Radius = f / 2
		}
		if sd.Segments, err = pa.segments("sphere"); err != nil {
			return zygo.SexpNull, err
		}

		return s.add(&graph.Node{Kind: graph.NodePrimitive, Name: "sphere", Data: sd}), nil
	})
}

// ---------------------------------------------------------------------------
// Composition
// ---------------------------------------------------------------------------

// container registers a builtin whose arguments are all children.
func container(env *zygo.Zlisp, s *scene, fn string, kind graph.NodeKind, data graph.NodeData) {
	env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		children, err := toChildren(fn, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return s.add(&graph.Node{Kind: kind, Name: fn, Children: children, Data: data}), nil
	})
}

func registerOperations(env *zygo.Zlisp, s *scene) {
	// (union a b ...) (difference a b ...) (intersection a b ...)
	for _, op := range []graph.Operator{graph.OpUnion, graph.OpDifference, graph.OpIntersection} {
		container(env, s, op.String(), graph.NodeOperation, graph.OperationData{Op: op})
	}

	// (group a b ...) is an implicit union.
	container(env, s, "group", graph.NodeGroup, graph.GroupData{})

	// (intersection-for a b ...) intersects everything it is given.
	container(env, s, "intersection_for", graph.NodeIntersection, graph.GroupData{})

	// (splice a b ...) contributes its children directly to the parent.
	container(env, s, "splice", graph.NodeList, graph.GroupData{})

	// (hull a b ...) (minkowski a b ...)
	for _, op := range []graph.AdvancedOp{graph.AdvHull, graph.AdvMinkowski} {
		container(env, s, op.String(), graph.NodeAdvanced, graph.AdvancedData{Op: op})
	}

	// (render a b ... :convexity 4)
	env.AddFunction("render", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		convexity, err := pa.float("render", "convexity", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		children, err := toChildren("render", pa.positional)
		if err != nil {
			return zygo.SexpNull, err
		}
		return s.add(&graph.Node{
			Kind:     graph.NodeRender,
			Name:     "render",
			Children: children,
			Data:     graph.RenderData{Convexity: int(convexity)},
		}), nil
	})
}

// ---------------------------------------------------------------------------
// Transforms and appearance
// ---------------------------------------------------------------------------

// vectored registers a builtin of the form (fn (vec3 x y z) children...).
func vectored(env *zygo.Zlisp, s *scene, fn string, uniform bool, build func(v graph.Vec3) (graph.NodeKind, graph.NodeData)) {
	env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires a vector as first argument", fn)
		}
		v, err := toVec3(args[0], uniform)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
		}
		children, err := toChildren(fn, args[1:])
		if err != nil {
			return zygo.SexpNull, err
		}
		kind, data := build(v)
		return s.add(&graph.Node{Kind: kind, Name: fn, Children: children, Data: data}), nil
	})
}

func registerTransforms(env *zygo.Zlisp, s *scene) {
	// (translate (vec3 5 0 0) child ...)
	vectored(env, s, "translate", false, func(v graph.Vec3) (graph.NodeKind, graph.NodeData) {
		return graph.NodeTransform, graph.TransformData{Translation: &v}
	})

	// (rotate (vec3 0 0 90) child ...)
	vectored(env, s, "rotate", false, func(v graph.Vec3) (graph.NodeKind, graph.NodeData) {
		return graph.NodeTransform, graph.TransformData{Rotation: &v}
	})

	// (scale 2 child ...) (scale (vec3 1 1 2) child ...)
	vectored(env, s, "scale", true, func(v graph.Vec3) (graph.NodeKind, graph.NodeData) {
		return graph.NodeTransform, graph.TransformData{Scale: &v}
	})

	// (resize (vec3 10 0 0) child ...)
	vectored(env, s, "resize", false, func(v graph.Vec3) (graph.NodeKind, graph.NodeData) {
		return graph.NodeAdvanced, graph.AdvancedData{Op: graph.AdvResize, NewSize: &v}
	})

	// (color :red child ...) (color "#3366ff" child ... :alpha 0.5)
	env.AddFunction("color", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("color requires a color as first argument")
		}
		// The color always comes first. A keyword color like :red takes no
		// value, so it must not reach parseArgs.
		c, err := toColor(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("color: %w", err)
		}
		pa := parseArgs(args[1:])
		if c.A, err = pa.float("color", "alpha", c.A); err != nil {
			return zygo.SexpNull, err
		}
		children, err := toChildren("color", pa.positional)
		if err != nil {
			return zygo.SexpNull, err
		}
		return s.add(&graph.Node{Kind: graph.NodeColor, Name: "color", Children: children, Data: graph.ColorData{Color: c}}), nil
	})
}

// ---------------------------------------------------------------------------
// Modifiers
// ---------------------------------------------------------------------------

// registerModifiers installs (highlight x), (background x), (disable x)
// and (root x). Each returns a copy of x carrying the modifier.
func registerModifiers(env *zygo.Zlisp, s *scene) {
	mods := []struct {
		fn  string
		mod graph.Modifiers
	}{
		{"highlight", graph.ModHighlight},
		{"background", graph.ModBackground},
		{"disable", graph.ModDisable},
		{"root", graph.ModRoot},
	}
	for _, m := range mods {
		env.AddFunction(m.fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly one node, got %d arguments", m.fn, len(args))
			}
			ref, ok := args[0].(*sexpNodeRef)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("%s: expected node, got %T (%s)", m.fn, args[0], args[0].SexpString(nil))
			}
			return s.withModifiers(ref.id, m.mod), nil
		})
	}
}

package engine

import (
	"fmt"

	"github.com/chazu/trisect/pkg/isect"
	"github.com/chazu/trisect/pkg/kernel"
	"github.com/chazu/trisect/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// defaultSegments is passed to the kernel when a cylinder has no :segments.
const defaultSegments = 32

// builtins carries the state shared by every builtin of one evaluation.
type builtins struct {
	scene  *scene.Scene
	kernel kernel.Kernel
}

func (b *builtins) requireKernel(fn string) error {
	if b.kernel == nil {
		return fmt.Errorf("%s: no geometry kernel configured", fn)
	}
	return nil
}

// toSoup converts any geometry value to a flat soup. Solids are meshed by
// the kernel.
func (b *builtins) toSoup(s zygo.Sexp) ([]float32, error) {
	switch v := s.(type) {
	case *sexpSoup:
		return v.data, nil
	case *sexpTriangle:
		return appendTriangle(nil, v.tri), nil
	case *sexpSolid:
		if err := b.requireKernel("mesh"); err != nil {
			return nil, err
		}
		m, err := b.kernel.ToMesh(v.solid)
		if err != nil {
			return nil, err
		}
		return m.Soup()
	}
	return nil, fmt.Errorf("expected triangle, soup or solid, got %T (%s)", s, s.SexpString(nil))
}

// epsilon reads the :epsilon keyword, falling back to def.
func epsilon(pa kwArgs, def float64) (float64, error) {
	v, ok := pa.kw["epsilon"]
	if !ok {
		return def, nil
	}
	return toFloat64(v)
}

// label reads the optional :label keyword.
func label(pa kwArgs) (string, error) {
	v, ok := pa.kw["label"]
	if !ok {
		return "", nil
	}
	return toString(v)
}

// registerBuiltins installs the trisect builtins into a zygomys environment.
// Builtins populate s as the script runs. k may be nil, in which case the
// solid builtins fail with an evaluation error.
//
// Source code must be preprocessed with preprocessSource() so that
// :keyword tokens and kebab-case names are recognized.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene, k kernel.Kernel) {
	b := &builtins{scene: s, kernel: k}

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var v isect.Point3
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			v[i] = f
		}
		return &sexpVec3{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (tri (vec3 0 0 0) (vec3 1 0 0) (vec3 0 1 0))
	// -----------------------------------------------------------------------
	env.AddFunction("tri", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("tri requires exactly 3 vertices, got %d", len(args))
		}
		var t isect.Triangle
		for i := range args {
			v, err := toVec3(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tri: vertex %d: %w", i, err)
			}
			t[i] = v
		}
		return &sexpTriangle{tri: t}, nil
	})

	// -----------------------------------------------------------------------
	// (soup t1 t2 ...) or (soup [0 0 0 1 0 0 0 1 0 ...])
	// -----------------------------------------------------------------------
	env.AddFunction("soup", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		data := []float32{}
		for i, arg := range args {
			switch v := arg.(type) {
			case *sexpTriangle:
				data = appendTriangle(data, v.tri)
			case *sexpSoup:
				data = append(data, v.data...)
			default:
				items, err := sexpListToSlice(arg)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("soup: argument %d: expected triangle, soup or list of numbers", i)
				}
				for j, item := range items {
					f, err := toFloat64(item)
					if err != nil {
						return zygo.SexpNull, fmt.Errorf("soup: argument %d value %d: %w", i, j, err)
					}
					data = append(data, float32(f))
				}
			}
		}
		if _, err := isect.TriangleCount(data); err != nil {
			return zygo.SexpNull, fmt.Errorf("soup: %w", err)
		}
		return &sexpSoup{data: data}, nil
	})

	// -----------------------------------------------------------------------
	// (tri-isect a b :epsilon 1e-6 :label "name")
	// -----------------------------------------------------------------------
	env.AddFunction("tri_isect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("tri-isect requires exactly 2 triangles, got %d", len(pa.positional))
		}
		v, err := toTriangle(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tri-isect: first: %w", err)
		}
		u, err := toTriangle(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tri-isect: second: %w", err)
		}
		eps, err := epsilon(pa, 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tri-isect: epsilon: %w", err)
		}
		lbl, err := label(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tri-isect: label: %w", err)
		}

		hit := isect.TriangleIntersectsTriangle(v, u, isect.WithEpsilon(eps))
		b.scene.Record(scene.Query{Kind: scene.QueryTriangle, Label: lbl, Result: hit})
		return &zygo.SexpBool{Val: hit}, nil
	})

	// -----------------------------------------------------------------------
	// (mesh-isect a b :epsilon 1e-6 :label "name" :workers 4)
	// -----------------------------------------------------------------------
	env.AddFunction("mesh_isect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("mesh-isect requires exactly 2 meshes, got %d", len(pa.positional))
		}
		a, err := b.toSoup(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-isect: first: %w", err)
		}
		c, err := b.toSoup(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-isect: second: %w", err)
		}
		eps, err := epsilon(pa, b.scene.Defaults.Epsilon)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-isect: epsilon: %w", err)
		}
		lbl, err := label(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-isect: label: %w", err)
		}

		q := scene.Query{Kind: scene.QueryMesh, Label: lbl}
		if v, ok := pa.kw["workers"]; ok {
			w, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mesh-isect: workers: %w", err)
			}
			q.Result, err = isect.MeshIntersectsMeshParallel(a, c, int(w), isect.WithEpsilon(eps))
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mesh-isect: %w", err)
			}
		} else {
			pair, hit, err := isect.FirstIntersectingPair(a, c, isect.WithEpsilon(eps))
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mesh-isect: %w", err)
			}
			q.Result = hit
			if hit {
				q.First = &pair
			}
		}
		b.scene.Record(q)
		return &zygo.SexpBool{Val: q.Result}, nil
	})

	// -----------------------------------------------------------------------
	// (defaults :epsilon 1e-5)
	// -----------------------------------------------------------------------
	env.AddFunction("defaults", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		eps, err := epsilon(pa, b.scene.Defaults.Epsilon)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defaults: epsilon: %w", err)
		}
		b.scene.Defaults.Epsilon = eps
		return &zygo.SexpFloat{Val: eps}, nil
	})

	// -----------------------------------------------------------------------
	// (box 10 20 30) or (box (vec3 10 20 30))
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := b.requireKernel("box"); err != nil {
			return zygo.SexpNull, err
		}
		var size isect.Point3
		switch len(args) {
		case 1:
			v, err := toVec3(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
			}
			size = v
		case 3:
			for i := range args {
				f, err := toFloat64(args[i])
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("box: dimension %d: %w", i, err)
				}
				size[i] = f
			}
		default:
			return zygo.SexpNull, fmt.Errorf("box requires 3 dimensions or a vec3, got %d arguments", len(args))
		}
		for i, f := range size {
			if f <= 0 {
				return zygo.SexpNull, fmt.Errorf("box: dimension %d must be positive, got %g", i, f)
			}
		}
		return &sexpSolid{
			solid: b.kernel.Box(size[0], size[1], size[2]),
			desc:  fmt.Sprintf("box %g %g %g", size[0], size[1], size[2]),
		}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder 50 10 :segments 32)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := b.requireKernel("cylinder"); err != nil {
			return zygo.SexpNull, err
		}
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("cylinder requires a height and a radius")
		}
		h, err := toPositive(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
		}
		r, err := toPositive(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
		}
		segments := defaultSegments
		if v, ok := pa.kw["segments"]; ok {
			f, err := toPositive(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: segments: %w", err)
			}
			segments = int(f)
		}
		return &sexpSolid{
			solid: b.kernel.Cylinder(h, r, segments),
			desc:  fmt.Sprintf("cylinder %g %g", h, r),
		}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere 5)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := b.requireKernel("sphere"); err != nil {
			return zygo.SexpNull, err
		}
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("sphere requires a radius")
		}
		r, err := toPositive(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
		}
		return &sexpSolid{solid: b.kernel.Sphere(r), desc: fmt.Sprintf("sphere %g", r)}, nil
	})

	// -----------------------------------------------------------------------
	// (translate obj (vec3 1 0 0)) for solids, soups and triangles
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("translate requires an object and a vec3")
		}
		d, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: offset: %w", err)
		}
		return b.transform("translate", args[0], func(p isect.Point3) isect.Point3 { return p.Add(d) },
			func(s kernel.Solid) kernel.Solid { return b.kernel.Translate(s, d[0], d[1], d[2]) })
	})

	// -----------------------------------------------------------------------
	// (rotate obj (vec3 0 0 90)), Euler angles in degrees
	// -----------------------------------------------------------------------
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("rotate requires an object and a vec3 of angles")
		}
		deg, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: angles: %w", err)
		}
		m := rotation(deg)
		return b.transform("rotate", args[0], func(p isect.Point3) isect.Point3 { return m.Mul3x1(p) },
			func(s kernel.Solid) kernel.Solid { return b.kernel.Rotate(s, deg[0], deg[1], deg[2]) })
	})

	// -----------------------------------------------------------------------
	// (union a b ...), (difference a b ...), (intersection a b ...)
	// -----------------------------------------------------------------------
	csg := map[string]func(kernel.Solid, kernel.Solid) kernel.Solid{
		"union":        func(x, y kernel.Solid) kernel.Solid { return b.kernel.Union(x, y) },
		"difference":   func(x, y kernel.Solid) kernel.Solid { return b.kernel.Difference(x, y) },
		"intersection": func(x, y kernel.Solid) kernel.Solid { return b.kernel.Intersection(x, y) },
	}
	for op, fn := range csg {
		env.AddFunction(op, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if err := b.requireKernel(op); err != nil {
				return zygo.SexpNull, err
			}
			if len(args) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least 2 solids", op)
			}
			acc, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: argument 0: %w", op, err)
			}
			for i := 1; i < len(args); i++ {
				s, err := toSolid(args[i])
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: argument %d: %w", op, i, err)
				}
				acc = fn(acc, s)
			}
			return &sexpSolid{solid: acc, desc: fmt.Sprintf("%s of %d", op, len(args))}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (defpart "name" geometry)
	// -----------------------------------------------------------------------
	env.AddFunction("defpart", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("defpart requires a name and a geometry expression")
		}
		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: name: %w", err)
		}

		p := &scene.Part{Name: partName}
		switch body := args[1].(type) {
		case *sexpSolid:
			p.Solid = body.solid
		case *sexpSoup, *sexpTriangle:
			soup, err := b.toSoup(body)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defpart: %w", err)
			}
			m, err := kernel.FromSoup(partName, soup)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defpart: %w", err)
			}
			p.Mesh = m
		default:
			return zygo.SexpNull, fmt.Errorf("defpart: expected solid, soup or triangle, got %T", args[1])
		}

		if err := b.scene.AddPart(p); err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: %w", err)
		}
		return args[1], nil
	})

	// -----------------------------------------------------------------------
	// (part "name") returns the part's geometry
	// -----------------------------------------------------------------------
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("part requires a name argument")
		}
		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}
		p := b.scene.Lookup(partName)
		if p == nil {
			return zygo.SexpNull, fmt.Errorf("part: no part named %q", partName)
		}
		if p.Solid != nil {
			return &sexpSolid{solid: p.Solid, desc: fmt.Sprintf("part %q", partName)}, nil
		}
		soup, err := p.Mesh.Soup()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: %w", err)
		}
		return &sexpSoup{data: soup}, nil
	})
}

// transform applies a rigid motion to any geometry value.
func (b *builtins) transform(fn string, obj zygo.Sexp, pt func(isect.Point3) isect.Point3, solid func(kernel.Solid) kernel.Solid) (zygo.Sexp, error) {
	switch v := obj.(type) {
	case *sexpTriangle:
		return &sexpTriangle{tri: mapTriangle(v.tri, pt)}, nil
	case *sexpSoup:
		return &sexpSoup{data: mapSoup(v.data, pt)}, nil
	case *sexpVec3:
		return &sexpVec3{vec: pt(v.vec)}, nil
	case *sexpSolid:
		if err := b.requireKernel(fn); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: solid(v.solid), desc: fn + " " + v.desc}, nil
	}
	return zygo.SexpNull, fmt.Errorf("%s: expected geometry, got %T (%s)", fn, obj, obj.SexpString(nil))
}

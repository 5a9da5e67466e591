package main

import (
	"log"

	"github.com/chazu/trisect/pkg/engine"
	"github.com/chazu/trisect/pkg/kernel"
	"github.com/chazu/trisect/pkg/kernel/sdfx"
	"github.com/chazu/trisect/pkg/meshio"
	"github.com/chazu/trisect/pkg/scene"
	"github.com/chazu/trisect/pkg/tessellate"
)

// App runs the trisect pipelines: scripts through the engine and mesh
// files through the loaders, both ending in an interference check.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
}

// PartData summarizes one tessellated part.
type PartData struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Triangles int    `json:"triangles"`
}

// EvalErrorData is a JSON-serializable error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Part    string `json:"part,omitempty"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a script.
type EvalResult struct {
	Parts         []PartData           `json:"parts"`
	Queries       []scene.Query        `json:"queries"`
	Interferences []scene.Interference `json:"interferences"`
	Errors        []EvalErrorData      `json:"errors"`
	Warnings      []EvalErrorData      `json:"warnings"`
}

// CheckResult is the result of checking mesh files against each other.
type CheckResult struct {
	Parts         []PartData           `json:"parts"`
	Interferences []scene.Interference `json:"interferences"`
	Warnings      []EvalErrorData      `json:"warnings"`
}

// NewApp creates a new App with an engine and the sdfx kernel.
func NewApp() *App {
	return NewAppWithKernel(sdfx.New())
}

// NewAppWithKernel creates an App whose solids are built and meshed by k.
func NewAppWithKernel(k kernel.Kernel) *App {
	return &App{
		engine: engine.NewEngine(k),
		kernel: k,
	}
}

func newEvalResult() EvalResult {
	return EvalResult{
		Parts:         []PartData{},
		Queries:       []scene.Query{},
		Interferences: []scene.Interference{},
		Errors:        []EvalErrorData{},
		Warnings:      []EvalErrorData{},
	}
}

func findingData(f scene.ValidationError) EvalErrorData {
	return EvalErrorData{Part: f.Part, Message: f.Message}
}

// Evaluate runs source and checks every pair of the parts it declares.
func (a *App) Evaluate(source string) EvalResult {
	result := newEvalResult()

	// Step 1: Evaluate the Lisp source into a scene.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
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
	result.Queries = append(result.Queries, s.Queries...)

	// Step 2: Structural validation.
	findings := scene.Validate(s)
	for _, f := range findings {
		if f.Severity == scene.SeverityError {
			result.Errors = append(result.Errors, findingData(f))
		} else {
			result.Warnings = append(result.Warnings, findingData(f))
		}
	}
	if scene.HasErrors(findings) {
		return result
	}

	// Step 3: Tessellate parts into triangle meshes.
	meshes, err := tessellate.Tessellate(s, a.kernel)
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
		return result
	}
	parts := s.Parts()
	for i, m := range meshes {
		result.Parts = append(result.Parts, PartData{
			Name:      m.PartName,
			Kind:      parts[i].Kind(),
			Triangles: m.TriangleCount(),
		})
	}

	// Step 4: Pairwise interference.
	interferences, warnings, err := scene.CheckInterference(meshes, s.Defaults.Epsilon)
	if err != nil {
		log.Printf("Interference error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	result.Interferences = interferences
	for _, w := range warnings {
		result.Warnings = append(result.Warnings, findingData(w))
	}

	return result
}

// CheckFiles loads every path and checks each pair of meshes for
// interference, spreading pairs over workers goroutines.
func (a *App) CheckFiles(paths []string, eps float64, workers int) (CheckResult, error) {
	result := CheckResult{
		Parts:         []PartData{},
		Interferences: []scene.Interference{},
		Warnings:      []EvalErrorData{},
	}

	meshes := make([]*kernel.Mesh, 0, len(paths))
	for _, p := range paths {
		m, err := meshio.Load(p)
		if err != nil {
			return result, err
		}
		meshes = append(meshes, m)
		result.Parts = append(result.Parts, PartData{Name: m.PartName, Kind: "file", Triangles: m.TriangleCount()})
	}

	interferences, warnings, err := scene.CheckInterferenceParallel(meshes, eps, workers)
	if err != nil {
		return result, err
	}
	result.Interferences = interferences
	for _, w := range warnings {
		result.Warnings = append(result.Warnings, findingData(w))
	}
	return result, nil
}

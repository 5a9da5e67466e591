package scene

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/chazu/trisect/pkg/isect"
	"github.com/chazu/trisect/pkg/kernel"
)

// Interference reports two parts whose surfaces intersect.
type Interference struct {
	A     string     `json:"a"`
	B     string     `json:"b"`
	Pairs int        `json:"pairs"` // number of intersecting triangle pairs
	First isect.Pair `json:"first"`
}

// CheckInterference tests every pair of distinct meshes, in order, and
// reports the pairs whose surfaces intersect. Empty meshes are skipped
// with a warning. A solid fully enclosed by another has no intersecting
// surface and is not reported.
func CheckInterference(meshes []*kernel.Mesh, eps float64) ([]Interference, []ValidationError, error) {
	return CheckInterferenceParallel(meshes, eps, 1)
}

// CheckInterferenceParallel is CheckInterference with mesh pairs spread
// over workers goroutines. Results keep the sequential order. workers < 1
// uses GOMAXPROCS.
func CheckInterferenceParallel(meshes []*kernel.Mesh, eps float64, workers int) ([]Interference, []ValidationError, error) {
	soups, warnings, err := soupsOf(meshes)
	if err != nil {
		return nil, nil, err
	}

	type job struct{ i, j int }
	var jobs []job
	for i := range meshes {
		if len(soups[i]) == 0 {
			continue
		}
		for j := i + 1; j < len(meshes); j++ {
			if len(soups[j]) != 0 {
				jobs = append(jobs, job{i, j})
			}
		}
	}

	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	found := make([]*Interference, len(jobs))
	errs := make([]error, len(jobs))
	var next atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				n := int(next.Add(1) - 1)
				if n >= len(jobs) {
					return
				}
				i, j := jobs[n].i, jobs[n].j
				found[n], errs[n] = checkPair(meshes[i].PartName, meshes[j].PartName, soups[i], soups[j], eps)
			}
		}()
	}
	wg.Wait()

	interferences := []Interference{}
	for n := range jobs {
		if errs[n] != nil {
			return nil, nil, errs[n]
		}
		if found[n] != nil {
			interferences = append(interferences, *found[n])
		}
	}
	return interferences, warnings, nil
}

// soupsOf expands every mesh once, warning about empty ones.
func soupsOf(meshes []*kernel.Mesh) ([][]float32, []ValidationError, error) {
	var warnings []ValidationError
	soups := make([][]float32, len(meshes))
	for i, m := range meshes {
		soup, err := m.Soup()
		if err != nil {
			return nil, nil, fmt.Errorf("interference: part %s: %w", m.PartName, err)
		}
		if len(soup) == 0 {
			warnings = append(warnings, ValidationError{
				Part:     m.PartName,
				Message:  "empty mesh skipped in interference check",
				Severity: SeverityWarning,
			})
		}
		soups[i] = soup
	}
	return soups, warnings, nil
}

func checkPair(a, b string, sa, sb []float32, eps float64) (*Interference, error) {
	pairs, err := isect.IntersectingPairs(sa, sb, isect.WithEpsilon(eps))
	if err != nil {
		return nil, fmt.Errorf("interference: %s vs %s: %w", a, b, err)
	}
	if len(pairs) == 0 {
		return nil, nil
	}
	return &Interference{A: a, B: b, Pairs: len(pairs), First: pairs[0]}, nil
}

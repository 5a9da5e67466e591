package scene

import "fmt"

// ValidationSeverity indicates whether a finding blocks further processing
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks interference checks
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Part     string             // which part has the problem (empty if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] part %s: %s", e.Severity, e.Part, e.Message)
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate runs structural checks on the scene. It never mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDefaults(s)...)
	for _, p := range s.parts {
		errs = append(errs, validatePart(p)...)
	}
	return errs
}

func validateDefaults(s *Scene) []ValidationError {
	if s.Defaults.Epsilon < 0 {
		return []ValidationError{{
			Message:  fmt.Sprintf("epsilon %g is negative and never snaps", s.Defaults.Epsilon),
			Severity: SeverityWarning,
		}}
	}
	return nil
}

func validatePart(p *Part) []ValidationError {
	switch p.Kind() {
	case "empty":
		return []ValidationError{{
			Part:     p.Name,
			Message:  "part has no geometry",
			Severity: SeverityError,
		}}
	case "ambiguous":
		return []ValidationError{{
			Part:     p.Name,
			Message:  "part has both a solid and a mesh",
			Severity: SeverityError,
		}}
	case "soup":
		if _, err := p.Mesh.Soup(); err != nil {
			return []ValidationError{{
				Part:     p.Name,
				Message:  err.Error(),
				Severity: SeverityError,
			}}
		}
		if p.Mesh.TriangleCount() == 0 {
			return []ValidationError{{
				Part:     p.Name,
				Message:  "mesh has no triangles",
				Severity: SeverityWarning,
			}}
		}
	}
	return nil
}

// Package classify decides how one backend endpoint is exposed through the
// adapted protocol surface. Classification is a pure function of a single
// descriptor: it never looks at the rest of the collection, performs no I/O,
// and yields the same outcome on every call.
package classify

import (
	"fmt"
	"strings"

	"github.com/zepai/memory-mcp/internal/descriptor"
)

// Kind is the classification outcome for one endpoint.
type Kind int

const (
	// Excluded endpoints are dropped from the adapted surface.
	Excluded Kind = iota
	// Tool is an invokable action mapped from a mutating endpoint.
	Tool
	// Resource is a read-only endpoint without path parameters.
	Resource
	// ResourceTemplate is a read-only endpoint parameterized by path
	// variables.
	ResourceTemplate
)

func (k Kind) String() string {
	switch k {
	case Tool:
		return "tool"
	case Resource:
		return "resource"
	case ResourceTemplate:
		return "resource_template"
	default:
		return "excluded"
	}
}

// Outcome carries the classification of one descriptor. Params is set only
// for ResourceTemplate, in path order.
type Outcome struct {
	Kind       Kind
	Descriptor descriptor.Descriptor
	Params     []string
}

// MalformedRouteError reports a path whose placeholder syntax cannot be
// parsed. It is a construction-time error: the route is never silently
// excluded or defaulted.
type MalformedRouteError struct {
	Path    string
	Segment string
	Reason  string
}

func (e *MalformedRouteError) Error() string {
	return fmt.Sprintf("malformed route %q: segment %q: %s", e.Path, e.Segment, e.Reason)
}

// Classify maps one endpoint descriptor to its outcome.
//
// Rules, first match wins:
//  1. admin-tagged mutation (POST/PUT/DELETE)  -> Excluded
//  2. mutation                                 -> Tool
//  3. GET with path parameters                 -> ResourceTemplate
//  4. GET without path parameters              -> Resource
//  5. any other method                         -> Excluded
//
// Admin GETs deliberately stay visible (rule 1 only fires for mutations) so
// read-only admin endpoints like cache stats remain inspectable.
func Classify(d descriptor.Descriptor) (Outcome, error) {
	params, err := PathParams(d.Path)
	if err != nil {
		return Outcome{}, err
	}

	if d.Mutating() {
		if d.HasTag(descriptor.TagAdmin) {
			return Outcome{Kind: Excluded, Descriptor: d}, nil
		}
		return Outcome{Kind: Tool, Descriptor: d}, nil
	}

	if d.Method == descriptor.GET {
		if len(params) > 0 {
			return Outcome{Kind: ResourceTemplate, Descriptor: d, Params: params}, nil
		}
		return Outcome{Kind: Resource, Descriptor: d}, nil
	}

	return Outcome{Kind: Excluded, Descriptor: d}, nil
}

// PathParams extracts placeholder identifiers from a path, in order. A
// placeholder is a whole segment of the form {identifier} where identifier
// matches [A-Za-z_][A-Za-z0-9_]*. Any other use of braces in a segment is a
// MalformedRouteError; ambiguity surfaces instead of being guessed at.
func PathParams(path string) ([]string, error) {
	var params []string
	for _, seg := range strings.Split(path, "/") {
		if !strings.ContainsAny(seg, "{}") {
			continue
		}
		name, ok := paramName(seg)
		if !ok {
			return nil, &MalformedRouteError{
				Path:    path,
				Segment: seg,
				Reason:  "braces must form exactly one {identifier} segment",
			}
		}
		params = append(params, name)
	}
	return params, nil
}

// paramName returns the identifier of a {identifier} segment.
func paramName(seg string) (string, bool) {
	if len(seg) < 3 || seg[0] != '{' || seg[len(seg)-1] != '}' {
		return "", false
	}
	name := seg[1 : len(seg)-1]
	if strings.ContainsAny(name, "{}") {
		// Adjacent or nested placeholders ("{a}{b}", "{{x}}").
		return "", false
	}
	if !validIdent(name) {
		return "", false
	}
	return name, true
}

func validIdent(s string) bool {
	for i, r := range s {
		switch {
		case r == '_',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

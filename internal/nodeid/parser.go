// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"

	"github.com/specialistvlad/filtergrid/internal/schema"
)

// portRegex parses the canonical form, e.g. `feOffset-1.result:out`. The
// node id may not contain dots; attribute names may contain hyphens.
var portRegex = regexp.MustCompile(`^([a-zA-Z0-9_-]+)\.([a-zA-Z0-9_-]+):(in|out)$`)

// isValidNodeID checks for undesirable but technically valid names.
func isValidNodeID(id string) bool {
	return id != "-" && id != "_"
}

// ParsePort creates a Port by parsing its canonical string representation.
func ParsePort(raw string) (Port, error) {
	if raw == "" {
		return Port{}, fmt.Errorf("port cannot be empty")
	}

	matches := portRegex.FindStringSubmatch(raw)
	if matches == nil {
		return Port{}, fmt.Errorf("invalid port format: %q", raw)
	}
	if !isValidNodeID(matches[1]) {
		return Port{}, fmt.Errorf("invalid node id: %q", matches[1])
	}

	dir, err := schema.ParseDirection(matches[3])
	if err != nil {
		// Unreachable due to regex `(in|out)`
		return Port{}, fmt.Errorf("internal error parsing direction: %w", err)
	}
	return Port{Node: matches[1], Attribute: matches[2], Direction: dir}, nil
}

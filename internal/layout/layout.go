// Package layout maps a parsed identifier onto the directory convention of
// the downstream UI (ComfyUI-style model folders).
package layout

import "strings"

// rule is one override entry: when both predicates match, the asset is
// placed in Dir instead of the pluralized resource type.
type rule struct {
	ecosystem    func(string) bool
	resourceType func(string) bool
	dir          string
}

// overrides is consulted in order before the default pluralization rule.
// New special cases are added here, not as branching logic in Resolve.
var overrides = []rule{
	// Flux-family checkpoints live under unet/, not checkpoints/.
	{ecosystem: hasPrefix("flux"), resourceType: equals("checkpoint"), dir: "unet"},
}

// Resolve returns the relative directory for an asset of the given resource
// type and ecosystem. When structured is false the result is empty and
// assets land directly under the base directory.
func Resolve(resourceType, ecosystem string, structured bool) string {
	if !structured {
		return ""
	}
	for _, r := range overrides {
		if r.ecosystem(ecosystem) && r.resourceType(resourceType) {
			return r.dir
		}
	}
	return resourceType + "s"
}

func hasPrefix(prefix string) func(string) bool {
	return func(s string) bool { return strings.HasPrefix(s, prefix) }
}

func equals(want string) func(string) bool {
	return func(s string) bool { return s == want }
}

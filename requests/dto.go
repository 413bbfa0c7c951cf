package requests

import "github.com/brettbedarf/fstree"

// IntentDTO is the JSON/YAML representation of [fstree.Intent]
type IntentDTO struct {
	ID               *string           `json:"id,omitempty" yaml:"id,omitempty"` // Optional; a UUID is generated when absent
	Kind             fstree.IntentKind `json:"kind" yaml:"kind"`
	TargetParentPath *string           `json:"target,omitempty" yaml:"target,omitempty"` // Defaults to the root
	Name             *string           `json:"name,omitempty" yaml:"name,omitempty"`
	SourcePath       *string           `json:"source,omitempty" yaml:"source,omitempty"`
	SourcePaths      []string          `json:"sources,omitempty" yaml:"sources,omitempty"`
}

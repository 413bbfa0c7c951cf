package fstree

// IntentKind valid kinds are the five structural mutations a host can request
type IntentKind string

const (
	CreateFileIntent   IntentKind = "create_file"
	CreateFolderIntent IntentKind = "create_folder"
	RenameIntent       IntentKind = "rename"
	DeleteIntent       IntentKind = "delete"
	MoveIntent         IntentKind = "move"
)

// Intent is a pending mutation request passed from entrypoints (cli, batch
// files, tui) to the tree. It is consumed by the call that services it and
// has no lifecycle of its own.
//
// Paths are absolute or relative to the tree root; "" is the root.
type Intent struct {
	ID   string
	Kind IntentKind
	// TargetParentPath is where create applies, or the drop target of a move
	TargetParentPath string
	// Name is the new entry name for create, or the new name for rename
	Name string
	// SourcePath is the node renamed or deleted
	SourcePath string
	// SourcePaths are the nodes dropped by a move
	SourcePaths []string
}

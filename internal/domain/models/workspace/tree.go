package workspace

// Forest is the folder hierarchy built from a flat snapshot. Roots include
// true top-level folders plus any folder promoted during structural repair
// (dangling parent or cycle).
type Forest struct {
	Roots []*FolderNode `json:"folders"`

	// Repairs counts structural inconsistencies the builder recovered from:
	// dangling parent references and severed cycle edges. Zero on healthy data.
	Repairs int `json:"-"`
}

// FolderNode is a folder in the forest with its nested children. Level is
// recomputed from the built tree, not taken from the input snapshot.
type FolderNode struct {
	Folder   *Folder       `json:"folder"`
	Level    int           `json:"level"`
	Children []*FolderNode `json:"folders"`
}

// Walk visits the node and all descendants depth-first.
func (n *FolderNode) Walk(visit func(*FolderNode)) {
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// Walk visits every node in the forest depth-first.
func (f *Forest) Walk(visit func(*FolderNode)) {
	for _, root := range f.Roots {
		root.Walk(visit)
	}
}

// Size returns the number of folders in the forest.
func (f *Forest) Size() int {
	n := 0
	f.Walk(func(*FolderNode) { n++ })
	return n
}

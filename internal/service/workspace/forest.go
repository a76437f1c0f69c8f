package workspace

import (
	"sort"

	models "atrium/internal/domain/models/workspace"
)

// BuildForest constructs the folder hierarchy from a flat snapshot.
//
// The builder never loses data: a folder whose declared parent is missing, or
// whose parent edge would introduce a cycle, is promoted to the root set
// instead of being dropped. Levels are recomputed from the built tree so
// drifted level columns self-heal. Children are ordered lexicographically by
// name (ties by id), stable across rebuilds so UI expand/collapse state keyed
// by folder id stays valid.
func BuildForest(folders []models.Folder) *models.Forest {
	forest := &models.Forest{Roots: make([]*models.FolderNode, 0, len(folders))}

	nodes := make(map[string]*models.FolderNode, len(folders))
	for i := range folders {
		f := &folders[i]
		nodes[f.ID] = &models.FolderNode{
			Folder:   f,
			Children: make([]*models.FolderNode, 0),
		}
	}

	// Effective parent edges. A missing parent is a dangling reference:
	// promote the folder to root rather than dropping it.
	parent := make(map[string]string, len(folders))
	for i := range folders {
		f := &folders[i]
		if f.ParentID == nil {
			continue
		}
		if _, ok := nodes[*f.ParentID]; !ok || *f.ParentID == f.ID {
			forest.Repairs++
			continue
		}
		parent[f.ID] = *f.ParentID
	}

	severCycles(parent, forest)

	// Attach children and collect roots.
	for id, node := range nodes {
		if pid, ok := parent[id]; ok {
			p := nodes[pid]
			p.Children = append(p.Children, node)
		} else {
			forest.Roots = append(forest.Roots, node)
		}
	}

	sortSiblings(forest.Roots)
	for _, node := range nodes {
		sortSiblings(node.Children)
	}

	// Recompute levels from the built tree; the stored level column is not
	// trusted.
	for _, root := range forest.Roots {
		assignLevels(root, 0)
	}

	return forest
}

// severCycles walks the ancestor chain of every folder and removes the back
// edge of any cycle it finds, promoting that folder to an additional root.
// Cycles only occur on corrupt data; each severed edge counts as a repair.
func severCycles(parent map[string]string, forest *models.Forest) {
	const (
		stateVisiting = 1
		stateDone     = 2
	)
	state := make(map[string]int, len(parent))

	for id := range parent {
		if state[id] == stateDone {
			continue
		}

		// Walk up from id, marking the current chain.
		chain := []string{}
		cur := id
		for {
			if state[cur] == stateDone {
				break
			}
			if state[cur] == stateVisiting {
				// cur appeared twice on this walk: the edge leading back to
				// it closes a cycle. Sever it.
				delete(parent, cur)
				forest.Repairs++
				break
			}
			state[cur] = stateVisiting
			chain = append(chain, cur)

			next, ok := parent[cur]
			if !ok {
				break
			}
			cur = next
		}

		for _, c := range chain {
			state[c] = stateDone
		}
	}
}

func sortSiblings(nodes []*models.FolderNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Folder.Name != nodes[j].Folder.Name {
			return nodes[i].Folder.Name < nodes[j].Folder.Name
		}
		return nodes[i].Folder.ID < nodes[j].Folder.ID
	})
}

func assignLevels(node *models.FolderNode, level int) {
	node.Level = level
	node.Folder.Level = level
	for _, child := range node.Children {
		assignLevels(child, level+1)
	}
}

// FilterForest returns a sub-forest containing every folder that matches the
// predicate plus all its ancestors, so the filtered tree remains navigable.
// Levels are preserved from the source forest.
func FilterForest(forest *models.Forest, match func(*models.Folder) bool) *models.Forest {
	filtered := &models.Forest{
		Roots:   make([]*models.FolderNode, 0),
		Repairs: forest.Repairs,
	}
	for _, root := range forest.Roots {
		if kept := filterNode(root, match); kept != nil {
			filtered.Roots = append(filtered.Roots, kept)
		}
	}
	return filtered
}

// filterNode keeps a node if it matches or if any descendant does.
func filterNode(node *models.FolderNode, match func(*models.Folder) bool) *models.FolderNode {
	keptChildren := make([]*models.FolderNode, 0, len(node.Children))
	for _, child := range node.Children {
		if kept := filterNode(child, match); kept != nil {
			keptChildren = append(keptChildren, kept)
		}
	}

	if len(keptChildren) == 0 && !match(node.Folder) {
		return nil
	}

	return &models.FolderNode{
		Folder:   node.Folder,
		Level:    node.Level,
		Children: keptChildren,
	}
}

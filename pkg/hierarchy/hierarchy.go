package hierarchy

import (
	"slices"
	"sort"
	"strings"

	"github.com/foomo/sitecheck/content"
)

// Hierarchy lookup structures for a flat list of nodes. It is derived from an
// immutable snapshot on every pass and never mutated afterwards.
type Hierarchy struct {
	// ByID all nodes, including the ones hidden from navigation
	ByID map[int]*content.Node
	// ByParent children for every parent id, ordered by Node.Order
	ByParent map[int][]*content.Node
	// TopLevel navigation visible nodes without a (visible) parent
	TopLevel []*content.Node
	ids      []int
}

// Build derives a hierarchy. Parent references to missing nodes are not an
// error, those nodes end up in TopLevel.
func Build(nodes []content.Node) *Hierarchy {
	h := &Hierarchy{
		ByID:     make(map[int]*content.Node, len(nodes)),
		ByParent: map[int][]*content.Node{},
	}

	ordered := make([]*content.Node, 0, len(nodes))
	for i := range nodes {
		n := nodes[i]
		if _, ok := h.ByID[n.ID]; ok {
			// first one wins
			continue
		}
		h.ByID[n.ID] = &n
		h.ids = append(h.ids, n.ID)
		ordered = append(ordered, &n)
	}
	sort.Ints(h.ids)
	sortByOrder(ordered)

	for _, n := range ordered {
		if n.HasParent() {
			h.ByParent[n.Parent()] = append(h.ByParent[n.Parent()], n)
		}
	}

	for _, n := range ordered {
		if !n.DisplayNavigation {
			continue
		}
		if !n.HasParent() {
			h.TopLevel = append(h.TopLevel, n)
			continue
		}
		if parent, ok := h.ByID[n.Parent()]; !ok || !parent.DisplayNavigation {
			h.TopLevel = append(h.TopLevel, n)
		}
	}
	return h
}

// IDs all node ids, ascending
func (h *Hierarchy) IDs() []int {
	return slices.Clone(h.ids)
}

// Nodes all nodes in ascending id order
func (h *Hierarchy) Nodes() []*content.Node {
	nodes := make([]*content.Node, 0, len(h.ids))
	for _, id := range h.ids {
		nodes = append(nodes, h.ByID[id])
	}
	return nodes
}

// Children of the given node, ordered
func (h *Hierarchy) Children(id int) []*content.Node {
	return h.ByParent[id]
}

// VisibleChildren children that are displayed in navigation
func (h *Hierarchy) VisibleChildren(id int) []*content.Node {
	var ret []*content.Node
	for _, n := range h.ByParent[id] {
		if n.DisplayNavigation {
			ret = append(ret, n)
		}
	}
	return ret
}

// Navigation the first limit top level entries, limit <= 0 returns all
func (h *Hierarchy) Navigation(limit int) []*content.Node {
	if limit <= 0 || limit >= len(h.TopLevel) {
		return h.TopLevel
	}
	return h.TopLevel[:limit]
}

// Breadcrumbs the path from the top most ancestor down to the node itself.
// Walking stops at missing parents and when a cycle is detected.
func (h *Hierarchy) Breadcrumbs(id int) []*content.Node {
	var (
		crumbs  []*content.Node
		visited = map[int]bool{}
	)
	n, ok := h.ByID[id]
	for ok && !visited[n.ID] {
		visited[n.ID] = true
		crumbs = append(crumbs, n)
		if !n.HasParent() {
			break
		}
		n, ok = h.ByID[n.Parent()]
	}
	slices.Reverse(crumbs)
	return crumbs
}

// Find looks a node up by url first and argument second
func (h *Hierarchy) Find(urlOrArgument string) *content.Node {
	if urlOrArgument == "" {
		return nil
	}
	withSlash := content.PathSeparator + strings.TrimPrefix(urlOrArgument, content.PathSeparator)
	for _, n := range h.Nodes() {
		if n.URL == urlOrArgument || n.URL == withSlash {
			return n
		}
	}
	for _, n := range h.Nodes() {
		if n.Argument == urlOrArgument {
			return n
		}
	}
	return nil
}

// HomePage the first node flagged as home page, by order
func (h *Hierarchy) HomePage() *content.Node {
	homes := h.HomePages()
	if len(homes) == 0 {
		return nil
	}
	return homes[0]
}

// HomePages all nodes flagged as home page, by order
func (h *Hierarchy) HomePages() []*content.Node {
	var homes []*content.Node
	for _, n := range h.Nodes() {
		if n.IsHomePage {
			homes = append(homes, n)
		}
	}
	sortByOrder(homes)
	return homes
}

func sortByOrder(nodes []*content.Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Order < nodes[j].Order
	})
}

package source

// Node is one item of the raw document: every descendant element name with
// its text content, in document order.
type Node struct {
	names  []string
	values []string
}

// NewNode builds a node from alternating name, value pairs.
func NewNode(pairs ...string) Node {
	var n Node
	for i := 0; i+1 < len(pairs); i += 2 {
		n.Add(pairs[i], pairs[i+1])
	}
	return n
}

// Add appends an element.
func (n *Node) Add(name, value string) {
	n.names = append(n.names, name)
	n.values = append(n.values, value)
}

func (n *Node) reserve(name string) int {
	n.Add(name, "")
	return len(n.names) - 1
}

// First returns the text of the first element called name.
func (n Node) First(name string) (string, bool) {
	for i, nm := range n.names {
		if nm == name {
			return n.values[i], true
		}
	}
	return "", false
}

// Len returns the number of elements in the node.
func (n Node) Len() int {
	return len(n.names)
}

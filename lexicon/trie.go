package lexicon

// Node addresses a state in the dictionary trie. The zero Node is the root.
type Node int32

// deadNode is returned by Walk when no dictionary word continues the path.
const deadNode Node = -1

type trieNode struct {
	children map[rune]Node
	term     TermID
}

// trie is a rune-keyed prefix tree stored in a flat slice so that walking it
// allocates nothing.
type trie struct {
	nodes []trieNode
}

func newTrie() *trie {
	return &trie{nodes: []trieNode{{}}}
}

func (t *trie) insert(word string, id TermID) {
	n := Node(0)
	for _, r := range word {
		next, ok := t.nodes[n].children[r]
		if !ok {
			next = Node(len(t.nodes))
			t.nodes = append(t.nodes, trieNode{})
			if t.nodes[n].children == nil {
				t.nodes[n].children = make(map[rune]Node)
			}
			t.nodes[n].children[r] = next
		}
		n = next
	}
	t.nodes[n].term = id
}

func (t *trie) walk(n Node, s string) Node {
	if n < 0 {
		return deadNode
	}
	for _, r := range s {
		next, ok := t.nodes[n].children[r]
		if !ok {
			return deadNode
		}
		n = next
	}
	return n
}

func (t *trie) term(n Node) TermID {
	if n < 0 {
		return OOV
	}
	return t.nodes[n].term
}

func (t *trie) lookup(word string) TermID {
	return t.term(t.walk(0, word))
}

package audiostore

// DefaultRoot is where class folders live when no root is configured.
const DefaultRoot = "data/classes"

type implStore struct {
	root string
}

// New creates a Store rooted at root (DefaultRoot when empty).
func New(root string) Store {
	if root == "" {
		root = DefaultRoot
	}
	return &implStore{root: root}
}

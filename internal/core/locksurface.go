package core

// NewLockSurface builds a session-lock surface's scene subtree directly
// under interactive content (locked surfaces sit above everything else
// while a lock is active) and tags it for hit-testing.
func NewLockSurface(scene *SceneTopology) *LockSurface {
	tree := scene.InteractiveContent.TreeCreate()
	ls := &LockSurface{Tree: tree}
	TagLockSurface(tree, ls)
	return ls
}

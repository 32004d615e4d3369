package dag

import "sync"

// Graph links steps by id: an edge from a to b means step b reads a variable
// that step a produces. It is safe for concurrent use.
type Graph struct {
	mutex sync.RWMutex
	nodes map[int]*node
}

type node struct {
	id int
	// deps are the producers this step waits on.
	deps map[int]*node
	// dependents are the steps waiting on this one.
	dependents map[int]*node
}

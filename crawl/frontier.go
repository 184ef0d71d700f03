package crawl

// frontier is a FIFO of URLs that admits each URL once.
type frontier struct {
	pending []string
	seen    map[string]bool
	next    int
}

func newFrontier() *frontier {
	return &frontier{seen: make(map[string]bool)}
}

// push enqueues u unless it was seen before.
func (f *frontier) push(u string) {
	if f.seen[u] {
		return
	}
	f.seen[u] = true
	f.pending = append(f.pending, u)
}

func (f *frontier) empty() bool {
	return f.next >= len(f.pending)
}

func (f *frontier) pop() string {
	u := f.pending[f.next]
	f.next++
	return u
}

// size is the number of distinct URLs admitted so far.
func (f *frontier) size() int {
	return len(f.seen)
}

// all returns the admitted URLs in discovery order.
func (f *frontier) all() []string {
	return f.pending
}

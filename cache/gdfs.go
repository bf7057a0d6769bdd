package cache

// GDFSPolicy implements GreedyDual-Size Frequency eviction: every key has
// a cost (work it took to produce, e.g. optimization time) and a size
// (e.g. plan node count); its priority is L + frequency*cost/size, where L
// is a global inflation value raised to the evicted victim's priority each
// time. This generalizes the teacher's single LRU/history cache contract
// (sql/cache_test.go) to the second policy spec's C1 row names explicitly
// ("GDFS/LRU").
type GDFSPolicy[K comparable] struct {
	costFn func(K) float64
	sizeFn func(K) float64

	l         float64
	frequency map[K]float64
	priority  map[K]float64
}

// NewGDFSPolicy builds a policy using costFn/sizeFn to weigh each key. Both
// default to a constant 1 (making GDFS degenerate to plain LFU) when nil.
func NewGDFSPolicy[K comparable](costFn, sizeFn func(K) float64) *GDFSPolicy[K] {
	if costFn == nil {
		costFn = func(K) float64 { return 1 }
	}
	if sizeFn == nil {
		sizeFn = func(K) float64 { return 1 }
	}
	return &GDFSPolicy[K]{
		costFn:    costFn,
		sizeFn:    sizeFn,
		frequency: make(map[K]float64),
		priority:  make(map[K]float64),
	}
}

func (p *GDFSPolicy[K]) recompute(key K) {
	freq := p.frequency[key]
	size := p.sizeFn(key)
	if size <= 0 {
		size = 1
	}
	p.priority[key] = p.l + freq*p.costFn(key)/size
}

func (p *GDFSPolicy[K]) OnGet(key K) {
	p.frequency[key]++
	p.recompute(key)
}

func (p *GDFSPolicy[K]) OnSet(key K) {
	if _, ok := p.frequency[key]; !ok {
		p.frequency[key] = 1
	}
	p.recompute(key)
}

func (p *GDFSPolicy[K]) OnRemove(key K) {
	delete(p.frequency, key)
	delete(p.priority, key)
}

// Victim selects the minimum-priority key and raises L to that priority,
// the "greedy dual" inflation step.
func (p *GDFSPolicy[K]) Victim() (K, bool) {
	var victim K
	found := false
	best := 0.0
	for k, pr := range p.priority {
		if !found || pr < best {
			victim, best, found = k, pr, true
		}
	}
	if found {
		p.l = best
	}
	return victim, found
}

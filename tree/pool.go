package tree

import "sync"

// parallelThreshold is the minimum agent count to use the worker pool.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 32

// workChunk represents a range of agents for a worker to process.
type workChunk struct {
	start, end int
}

// pool runs one round of agents across persistent workers. Each agent's
// successors land in its own slot, so the next worklist keeps input order
// regardless of which worker finished first.
type pool struct {
	env        *env
	agents     []Agent
	results    [][]Agent
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newPool(e *env, workers int) *pool {
	return &pool{
		env:        e,
		numWorkers: max(1, workers),
		results:    make([][]Agent, 0, 64),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *pool) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *pool) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.computeChunk(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// run iterates every agent once and returns the next worklist.
func (p *pool) run(agents []Agent) []Agent {
	n := len(agents)
	if n == 0 {
		return nil
	}

	p.agents = agents
	if cap(p.results) < n {
		p.results = make([][]Agent, n)
	}
	p.results = p.results[:n]

	if p.numWorkers == 1 || n < parallelThreshold {
		p.computeChunk(0, n)
	} else {
		p.computeParallel(n)
	}

	size := 0
	for _, r := range p.results {
		size += len(r)
	}
	next := make([]Agent, 0, size)
	for i, r := range p.results {
		next = append(next, r...)
		p.results[i] = nil
	}
	p.agents = nil
	return next
}

// computeParallel dispatches work to the worker pool.
func (p *pool) computeParallel(n int) {
	if !p.running {
		p.startWorkers()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}

		p.workChan <- workChunk{start: start, end: end}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}

// computeChunk processes a range of agents for a single worker.
func (p *pool) computeChunk(i0, i1 int) {
	for i := i0; i < i1; i++ {
		p.results[i] = p.agents[i].Iterate(p.env)
	}
}

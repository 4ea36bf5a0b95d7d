// Package workerpool is a tomb-supervised worker pool: a long-lived set
// of goroutines that drain a task channel. The benchmark driver in
// internal/gateway uses it to fan synthetic orders out across a
// configurable thread count via /benchmark_advanced?c=N.
//
// An earlier version of this pool spawned a fresh goroutine per task
// (each worker handled exactly one task and died) and busy-spun checking
// the active worker count; the n workers here loop on the task channel
// directly instead, removing that spin and the constant respawn cost
// without changing the supervision style.
package workerpool

import (
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

// Task is a unit of work a Pool worker executes.
type Task func()

// Pool runs n long-lived workers pulling Tasks off a buffered channel.
type Pool struct {
	n     int
	tasks chan Task
}

// New creates a pool sized for n concurrent workers and a task queue deep
// enough to avoid blocking a typical benchmark burst.
func New(n int) *Pool {
	if n < 1 {
		n = 1
	}
	return &Pool{n: n, tasks: make(chan Task, 1024)}
}

// Submit enqueues a task. Blocks if the queue is full.
func (p *Pool) Submit(task Task) {
	p.tasks <- task
}

// Run starts the pool's workers under t and returns immediately. The
// workers exit, letting t.Wait return, once Close has been called and the
// queue is drained, or once t is killed.
func (p *Pool) Run(t *tomb.Tomb) {
	for i := 0; i < p.n; i++ {
		t.Go(func() error {
			return p.worker(t)
		})
	}
}

// Close signals no further tasks will be submitted; workers drain the
// remaining queue and exit.
func (p *Pool) Close() {
	close(p.tasks)
}

func (p *Pool) worker(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case task, ok := <-p.tasks:
			if !ok {
				return nil
			}
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Error().Interface("panic", r).Msg("workerpool task panicked")
					}
				}()
				task()
			}()
		}
	}
}

// Package taskqueue implements a bounded worker pool: a concurrent FIFO
// queue drained by up to max_workers concurrent workers, each invoking a
// callback once per dequeued item, with an optional inter-item interval
// meaningful only when max_workers is 1.
package taskqueue

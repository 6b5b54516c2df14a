// Package status collects runtime counters published by the simulation and
// gameplay systems for the status line and shutdown report
package status

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Registry is the metrics facade
// Systems cache counter pointers at construction; frame code writes atomics
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Strings *MetricMap[AtomicString]
}

func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// Counter returns the named integer metric
// A nil registry yields a detached counter so callers need no nil checks
func (r *Registry) Counter(key string) *atomic.Int64 {
	if r == nil {
		return new(atomic.Int64)
	}
	return r.Ints.Get(key)
}

// Label returns the named string metric
func (r *Registry) Label(key string) *AtomicString {
	if r == nil {
		return new(AtomicString)
	}
	return r.Strings.Get(key)
}

// Dump renders every metric as "key=value", integers first, each group in
// key order
func (r *Registry) Dump() string {
	var b strings.Builder
	sep := func() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
	}
	r.Ints.Range(func(k string, v *atomic.Int64) {
		sep()
		fmt.Fprintf(&b, "%s=%d", k, v.Load())
	})
	r.Strings.Range(func(k string, v *AtomicString) {
		sep()
		fmt.Fprintf(&b, "%s=%s", k, v.Load())
	})
	return b.String()
}

func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Strings.Count()
}

// Summary renders selected counters as "key=value" pairs, in the given order
// Missing keys are skipped
func (r *Registry) Summary(keys ...string) string {
	var b strings.Builder
	for _, k := range keys {
		if r.Ints.Has(k) {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%s=%d", shortKey(k), r.Ints.Get(k).Load())
			continue
		}
		if r.Strings.Has(k) {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%s=%s", shortKey(k), r.Strings.Get(k).Load())
		}
	}
	return b.String()
}

func shortKey(k string) string {
	if i := strings.LastIndexByte(k, '.'); i >= 0 {
		return k[i+1:]
	}
	return k
}

// Package metric provides concurrency-safe named counters. Three
// implementations trade lock granularity differently: one mutex, one
// read-write lock, or a set of independently locked shards.
package metric

import (
	"fmt"
	"slices"
	"strings"
)

// Counter counts events per key. All methods are safe for concurrent use.
type Counter interface {
	// Inc adds one to key.
	Inc(key string)
	// Get returns the count of key, 0 when it was never incremented.
	Get(key string) int64
	// Snapshot returns a copy of all counts.
	Snapshot() map[string]int64
	// String renders one "key : value" line per key, sorted, plus a blank line.
	String() string
}

// Kind names a Counter implementation.
type Kind string

const (
	KindMutex   Kind = "mutex"
	KindRWLock  Kind = "rwlock"
	KindSharded Kind = "sharded"
)

// Kinds lists every known Kind.
func Kinds() []Kind {
	return []Kind{KindMutex, KindRWLock, KindSharded}
}

// ParseKind maps a name to its Kind.
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(Kinds(), k) {
		return "", fmt.Errorf("metric: unknown counter kind %q (want one of %v)", name, Kinds())
	}
	return k, nil
}

// New builds a Counter of the given kind.
func New(kind Kind) (Counter, error) {
	switch kind {
	case KindMutex:
		return NewMutexCounter(), nil
	case KindRWLock:
		return NewRWCounter(), nil
	case KindSharded:
		return NewShardedCounter(0), nil
	default:
		return nil, fmt.Errorf("metric: unknown counter kind %q", kind)
	}
}

// render formats counts the way every Counter's String does.
func render(counts map[string]int64) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s : %d\n", k, counts[k])
	}
	b.WriteString("\n")
	return b.String()
}

// Package registry maps (algorithm, granularity, subject) keys to rebuild
// descriptors. The systems package registers every supported combination at
// startup; the CLI resolves user selections against this table.
package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/veldt/rerate/internal/pipeline"
)

// Key identifies one registered rating combination.
type Key struct {
	Algorithm   string
	Granularity string
	Subject     string
}

// String renders the key as algorithm/granularity/subject.
func (k Key) String() string {
	return k.Algorithm + "/" + k.Granularity + "/" + k.Subject
}

// Descriptor binds one combination to its rebuild entry point. Run loads the
// combination's system configs and rebuilds each named system in turn.
type Descriptor struct {
	Key Key
	Run func(ctx context.Context, db *gorm.DB, opts pipeline.Options) ([]pipeline.Summary, error)
}

var (
	mu    sync.RWMutex
	table = make(map[Key]Descriptor)
)

// Register adds one descriptor. Registering the same key twice fails.
func Register(d Descriptor) error {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := table[d.Key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, d.Key)
	}
	if d.Run == nil {
		return fmt.Errorf("%w: %s has no run function", ErrInvalidDescriptor, d.Key)
	}
	table[d.Key] = d
	return nil
}

// Get resolves one key. The error lists every registered key so a mistyped
// selection is easy to correct.
func Get(key Key) (Descriptor, error) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := table[key]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s (registered: %s)", ErrUnknownKey, key, keyList())
	}
	return d, nil
}

// All returns every descriptor in stable key order.
func All() []Descriptor {
	mu.RLock()
	defer mu.RUnlock()
	descriptors := make([]Descriptor, 0, len(table))
	for _, d := range table {
		descriptors = append(descriptors, d)
	}
	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Key.String() < descriptors[j].Key.String()
	})
	return descriptors
}

// Select returns the descriptors matching the given fields, where "all" or
// an empty string matches everything for that field, in stable key order.
func Select(algorithm, granularity, subject string) []Descriptor {
	matches := func(want, have string) bool {
		return want == "" || want == "all" || want == have
	}
	var selected []Descriptor
	for _, d := range All() {
		if matches(algorithm, d.Key.Algorithm) &&
			matches(granularity, d.Key.Granularity) &&
			matches(subject, d.Key.Subject) {
			selected = append(selected, d)
		}
	}
	return selected
}

// keyList renders the registered keys for error messages. Callers hold mu.
func keyList() string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

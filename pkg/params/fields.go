package params

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// fieldIndex maps each json name of Constants to its struct field index.
var fieldIndex = func() map[string]int {
	t := reflect.TypeOf(Constants{})
	idx := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := strings.Split(t.Field(i).Tag.Get("json"), ",")[0]
		if name != "" && name != "-" {
			idx[name] = i
		}
	}
	return idx
}()

// canonicalName accepts "outer-radius", "outer_radius" or "OUTER_RADIUS".
func canonicalName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "-", "_"))
}

// Set assigns the constant with the given name (its json name, with dashes
// or underscores).
func (c *Constants) Set(name string, v float64) error {
	i, ok := fieldIndex[canonicalName(name)]
	if !ok {
		return fmt.Errorf("params: unknown constant %q", name)
	}
	reflect.ValueOf(c).Elem().Field(i).SetFloat(v)
	return nil
}

// Get returns the constant with the given name.
func (c Constants) Get(name string) (float64, bool) {
	i, ok := fieldIndex[canonicalName(name)]
	if !ok {
		return 0, false
	}
	return reflect.ValueOf(c).Field(i).Float(), true
}

// Names lists every constant name in sorted order.
func Names() []string {
	names := lo.Keys(fieldIndex)
	sort.Strings(names)
	return names
}

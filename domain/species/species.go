// Package species holds the canonical species vocabulary shared by the metric
// registry, the reference tables and the validators.
package species

import (
	"sort"

	"zoostat/domain/core"
)

// Canonical species keys
const (
	Bovine  = "bovino"
	Swine   = "suino"
	Poultry = "aves"
	Sheep   = "ovino"
	Goat    = "caprino"
)

var aliases = map[string]string{
	"bovino":   Bovine,
	"bovinos":  Bovine,
	"bovine":   Bovine,
	"cattle":   Bovine,
	"gado":     Bovine,
	"boi":      Bovine,
	"vaca":     Bovine,
	"suino":    Swine,
	"suinos":   Swine,
	"swine":    Swine,
	"pig":      Swine,
	"pigs":     Swine,
	"porco":    Swine,
	"aves":     Poultry,
	"ave":      Poultry,
	"poultry":  Poultry,
	"frango":   Poultry,
	"frangos":  Poultry,
	"galinha":  Poultry,
	"broiler":  Poultry,
	"chicken":  Poultry,
	"ovino":    Sheep,
	"ovinos":   Sheep,
	"sheep":    Sheep,
	"ovelha":   Sheep,
	"cordeiro": Sheep,
	"caprino":  Goat,
	"caprinos": Goat,
	"goat":     Goat,
	"cabra":    Goat,
}

// Normalize maps a free-text species name to its canonical key.
// The second return is false for unknown species.
func Normalize(raw string) (string, bool) {
	key := core.NormalizeKey(raw)
	if key == "" {
		return "", false
	}
	canonical, ok := aliases[key]
	return canonical, ok
}

// Known returns the canonical species keys in sorted order
func Known() []string {
	seen := make(map[string]struct{})
	for _, v := range aliases {
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

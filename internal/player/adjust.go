package player

import (
	"slices"
	"strconv"
	"strings"
)

// Adjustments maps eq filter parameters to multipliers (1.0 = unchanged).
type Adjustments map[string]float64

// eqOrder is the parameter order of the eq filter documentation.
var eqOrder = []string{"contrast", "brightness", "saturation", "gamma", "gamma_r", "gamma_g", "gamma_b", "gamma_weight"}

// AdjustmentsFromPercent converts percent settings into multipliers,
// dropping parameters left at 100%.
func AdjustmentsFromPercent(percent map[string]int) Adjustments {
	if percent == nil {
		return nil
	}
	out := make(Adjustments, len(percent))
	for key, value := range percent {
		key = strings.TrimSpace(key)
		if key == "" || value == 100 {
			continue
		}
		out[key] = float64(value) / 100
	}
	return out
}

// Keys returns the parameters in serialization order: known eq parameters
// first, then anything else alphabetically.
func (a Adjustments) Keys() []string {
	keys := make([]string, 0, len(a))
	for _, key := range eqOrder {
		if _, ok := a[key]; ok {
			keys = append(keys, key)
		}
	}
	var rest []string
	for key := range a {
		if !slices.Contains(eqOrder, key) {
			rest = append(rest, key)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

// String renders "key=value" pairs joined by ':' as the eq filter expects.
func (a Adjustments) String() string {
	keys := a.Keys()
	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+strconv.FormatFloat(a[key], 'f', -1, 64))
	}
	return strings.Join(pairs, ":")
}

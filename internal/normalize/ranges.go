package normalize

import (
	"sort"
	"strconv"
	"strings"

	"github.com/amaumene/gostreamfr/internal/constants"
)

// RangeKind distinguishes explicit number lists from the all/latest keywords.
type RangeKind int

const (
	RangeList RangeKind = iota
	RangeAll
	RangeLatest
)

// RangeSpec is a parsed "2,4-6" / "all" / "latest" selection.
type RangeSpec struct {
	Kind    RangeKind
	Numbers []int
}

func (r RangeSpec) String() string {
	switch r.Kind {
	case RangeAll:
		return "all"
	case RangeLatest:
		return "latest"
	}
	parts := make([]string, len(r.Numbers))
	for i, n := range r.Numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// ParsePageRangeSpec parses a comma separated list of numbers and inclusive
// ranges into ascending unique numbers. Reversed ranges are swapped. When total
// is positive, numbers outside 1..total are dropped. Unparsable parts are skipped.
func ParsePageRangeSpec(spec string, total int) RangeSpec {
	spec = strings.ToLower(strings.TrimSpace(spec))
	switch spec {
	case "all":
		return RangeSpec{Kind: RangeAll}
	case "latest", "last":
		return RangeSpec{Kind: RangeLatest}
	}

	upper := constants.MaxPageNumber
	if total > 0 {
		upper = total
	}

	seen := map[int]bool{}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, ok := parseRangePart(part)
		if !ok {
			continue
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo < 1 {
			lo = 1
		}
		if hi > upper {
			hi = upper
		}
		for n := lo; n <= hi; n++ {
			seen[n] = true
		}
	}

	numbers := make([]int, 0, len(seen))
	for n := range seen {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return RangeSpec{Kind: RangeList, Numbers: numbers}
}

func parseRangePart(part string) (int, int, bool) {
	if lo, hi, found := strings.Cut(part, "-"); found {
		a, errA := strconv.Atoi(strings.TrimSpace(lo))
		b, errB := strconv.Atoi(strings.TrimSpace(hi))
		if errA != nil || errB != nil {
			return 0, 0, false
		}
		return a, b, true
	}
	n, err := strconv.Atoi(part)
	if err != nil {
		return 0, 0, false
	}
	return n, n, true
}

// Resolve applies the selection to the numbers that actually exist and returns
// them ascending. Explicit numbers missing from a non-empty available list are dropped.
func (r RangeSpec) Resolve(available []int) []int {
	avail := append([]int(nil), available...)
	sort.Ints(avail)
	avail = dedupe(avail)

	switch r.Kind {
	case RangeAll:
		return avail
	case RangeLatest:
		if len(avail) == 0 {
			return []int{}
		}
		return []int{avail[len(avail)-1]}
	}

	if len(avail) == 0 {
		return append([]int{}, r.Numbers...)
	}
	present := make(map[int]bool, len(avail))
	for _, n := range avail {
		present[n] = true
	}
	out := []int{}
	for _, n := range r.Numbers {
		if present[n] {
			out = append(out, n)
		}
	}
	return out
}

func dedupe(sorted []int) []int {
	out := sorted[:0]
	for i, n := range sorted {
		if i == 0 || n != sorted[i-1] {
			out = append(out, n)
		}
	}
	return out
}

package wordlist

import (
	"fmt"
	"strconv"
	"strings"
)

// Select narrows keys by 1-based position: rng "100-250" keeps an
// inclusive span, list "1,3,5" picks single positions. Empty selectors
// keep everything; rng wins over list.
func Select(keys []string, rng, list string) ([]string, error) {
	if rng != "" {
		return selectRange(keys, rng)
	}
	if list != "" {
		return selectList(keys, list)
	}
	return keys, nil
}

func selectRange(keys []string, rng string) ([]string, error) {
	parts := strings.Split(rng, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid range %q, want start-end", rng)
	}

	start, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	end, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("invalid range %q, want start-end", rng)
	}
	if start <= 0 || start > end {
		return nil, fmt.Errorf("invalid range %q", rng)
	}
	if start > len(keys) {
		return nil, nil
	}

	return keys[start-1 : min(end, len(keys))], nil
}

func selectList(keys []string, list string) ([]string, error) {
	var out []string
	for p := range strings.SplitSeq(list, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		idx, err := strconv.Atoi(p)
		if err != nil || idx <= 0 {
			return nil, fmt.Errorf("invalid position %q in list", p)
		}
		if idx > len(keys) {
			continue
		}
		out = append(out, keys[idx-1])
	}
	return out, nil
}

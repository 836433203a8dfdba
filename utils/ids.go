package utils

import (
	"sort"
	"strconv"
	"strings"
)

// ParseID parses a single decimal id, ignoring surrounding spaces.
func ParseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// ParseIDs accepts repeated values and comma-separated lists
// (["3,1", "2"] -> [1 2 3]). Entries that are not integers are dropped.
// The result is sorted and de-duplicated, or nil when nothing parsed.
func ParseIDs(values []string) []int64 {
	var ids []int64
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if id, ok := ParseID(part); ok {
				ids = append(ids, id)
			}
		}
	}
	return SortedUnique(ids)
}

// SortedUnique sorts ids in place and drops duplicates.
func SortedUnique(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}

// JoinIDs renders ids as "1,2,3".
func JoinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

package mergeconfig

import (
	"sort"

	"github.com/devfeat/devfeat/internal/model"
)

// TraceFunc is invoked once per top-level key during Merge, reporting the
// chosen ExtendBehavior and which document(s) it drew from. Merge itself
// never logs; what the callback does with each decision is up to the caller.
type TraceFunc func(key string, behavior model.ExtendBehavior, source string)

// Merge combines parent into child under the given per-key behavior table.
// Keys absent from behaviors default to model.BehaviorReplace. Merge is a
// pure function: it has no side effects other than invoking trace (which
// may be nil).
func Merge(parent, child map[string]interface{}, behaviors map[string]model.ExtendBehavior, trace TraceFunc) (map[string]interface{}, error) {
	if trace == nil {
		trace = func(string, model.ExtendBehavior, string) {}
	}

	result := make(map[string]interface{})

	keys := unionKeys(parent, child)
	for _, key := range keys {
		behavior := model.BehaviorReplace
		if b, ok := behaviors[key]; ok {
			behavior = b
		}

		switch behavior {
		case model.BehaviorReplace:
			if v, ok := child[key]; ok {
				result[key] = v
				trace(key, behavior, "child")
			} else {
				trace(key, behavior, "removed")
			}

		case model.BehaviorSkip:
			if v, ok := parent[key]; ok {
				result[key] = v
			}
			trace(key, behavior, "parent")

		case model.BehaviorMerge:
			parentSeq, parentOK := toSequence(parent[key])
			childSeq, childOK := toSequence(child[key])

			_, parentPresent := parent[key]
			_, childPresent := child[key]
			if (parentPresent && !parentOK) || (childPresent && !childOK) {
				return nil, &model.MergeTypeError{Key: key}
			}

			result[key] = dedupUnion(parentSeq, childSeq)
			trace(key, behavior, "merged")

		default:
			return nil, &model.MergeTypeError{Key: key}
		}
	}

	return result, nil
}

func unionKeys(a, b map[string]interface{}) []string {
	seen := make(map[string]bool)
	var keys []string
	for k := range a {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func toSequence(v interface{}) ([]interface{}, bool) {
	if v == nil {
		return nil, true
	}
	seq, ok := v.([]interface{})
	return seq, ok
}

func dedupUnion(parent, child []interface{}) []interface{} {
	seen := make(map[interface{}]bool)
	result := make([]interface{}, 0, len(parent)+len(child))
	for _, v := range parent {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	for _, v := range child {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}

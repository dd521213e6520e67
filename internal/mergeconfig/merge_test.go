package mergeconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devfeat/devfeat/internal/model"
)

func TestMerge_Scenario(t *testing.T) {
	parent := map[string]interface{}{
		"a":    float64(1),
		"list": []interface{}{float64(1), float64(2)},
	}
	child := map[string]interface{}{
		"a":    float64(2),
		"list": []interface{}{float64(2), float64(3)},
	}
	behaviors := map[string]model.ExtendBehavior{
		"list": model.BehaviorMerge,
	}

	result, err := Merge(parent, child, behaviors, nil)
	require.NoError(t, err)

	assert.Equal(t, float64(2), result["a"])
	assert.Equal(t, []interface{}{float64(1), float64(2), float64(3)}, result["list"])
}

func TestMerge_ReplaceRemovesAbsentChildKey(t *testing.T) {
	parent := map[string]interface{}{"x": "parent-value"}
	child := map[string]interface{}{}

	result, err := Merge(parent, child, nil, nil)
	require.NoError(t, err)

	_, present := result["x"]
	assert.False(t, present)
}

func TestMerge_Skip(t *testing.T) {
	parent := map[string]interface{}{"x": "parent-value"}
	child := map[string]interface{}{"x": "child-value"}
	behaviors := map[string]model.ExtendBehavior{"x": model.BehaviorSkip}

	result, err := Merge(parent, child, behaviors, nil)
	require.NoError(t, err)
	assert.Equal(t, "parent-value", result["x"])
}

func TestMerge_MergeTypeErrorOnNonArray(t *testing.T) {
	parent := map[string]interface{}{"x": "not-an-array"}
	child := map[string]interface{}{"x": []interface{}{"a"}}
	behaviors := map[string]model.ExtendBehavior{"x": model.BehaviorMerge}

	_, err := Merge(parent, child, behaviors, nil)
	require.Error(t, err)
	var typeErr *model.MergeTypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestMerge_Idempotent(t *testing.T) {
	parent := map[string]interface{}{
		"a":    float64(1),
		"list": []interface{}{float64(1), float64(2)},
	}
	child := map[string]interface{}{
		"a":    float64(2),
		"list": []interface{}{float64(2), float64(3)},
	}
	behaviors := map[string]model.ExtendBehavior{"list": model.BehaviorMerge}

	once, err := Merge(parent, child, behaviors, nil)
	require.NoError(t, err)

	twice, err := Merge(parent, once, behaviors, nil)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestMerge_TraceInvokedPerKey(t *testing.T) {
	parent := map[string]interface{}{"a": float64(1)}
	child := map[string]interface{}{"a": float64(2)}

	var calls int
	_, err := Merge(parent, child, nil, func(key string, behavior model.ExtendBehavior, source string) {
		calls++
		assert.Equal(t, "a", key)
		assert.Equal(t, model.BehaviorReplace, behavior)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

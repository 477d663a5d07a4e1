package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStableStringify_SortsMapKeys(t *testing.T) {
	a := map[string]interface{}{
		"width":  50.0,
		"height": 30.0,
		"offset": map[string]interface{}{"y": 1.0, "x": 2.0},
	}
	b := map[string]interface{}{
		"offset": map[string]interface{}{"x": 2.0, "y": 1.0},
		"height": 30.0,
		"width":  50.0,
	}

	assert.Equal(t, StableStringify(a), StableStringify(b))
	assert.Equal(t, `{"height":30,"offset":{"x":2,"y":1},"width":50}`, StableStringify(a))
}

func TestStableStringify_PreservesArrayOrder(t *testing.T) {
	assert.Equal(t, `[1,2,3]`, StableStringify([]interface{}{1, 2, 3}))
	assert.NotEqual(t, StableStringify([]interface{}{1, 2, 3}), StableStringify([]interface{}{3, 2, 1}))
}

func TestStableStringify_Scalars(t *testing.T) {
	assert.Equal(t, "null", StableStringify(nil))
	assert.Equal(t, "true", StableStringify(true))
	assert.Equal(t, `"a\"b"`, StableStringify(`a"b`))
}

func TestHashConfig_Stability(t *testing.T) {
	// Two identical configs must hash identically no matter how they
	// were constructed.
	a := DefaultConfig()
	b := DefaultConfig()

	assert.Equal(t, HashConfig(a, "loc-1"), HashConfig(b, "loc-1"))
	assert.NotEmpty(t, HashConfig(a, "loc-1"))
}

func TestHashConfig_SensitiveToFieldChange(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	b.CodeFontPx = a.CodeFontPx + 1

	assert.NotEqual(t, HashConfig(a, "loc-1"), HashConfig(b, "loc-1"))
}

func TestHashConfig_SensitiveToLocation(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotEqual(t, HashConfig(cfg, "loc-1"), HashConfig(cfg, "loc-2"))
}

func TestDjb2_KnownValues(t *testing.T) {
	// djb2("") is the seed; djb2("a") = 5381*33 + 'a'
	assert.Equal(t, uint32(5381), djb2(""))
	assert.Equal(t, uint32(5381*33+'a'), djb2("a"))
}

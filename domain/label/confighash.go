package label

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// HashConfig produces a short base-36 fingerprint of a rendering
// configuration plus the selected location key. Identical inputs always
// yield the identical hash; it is a cache key, not a security boundary,
// so a collision at worst causes a stale-looking cache hit that the next
// explicit regeneration corrects.
func HashConfig(cfg Config, locationKey string) string {
	// Round-trip through JSON so the hash input is structural data, not
	// Go struct field order.
	raw, err := json.Marshal(cfg)
	if err != nil {
		return ""
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return ""
	}

	payload := map[string]interface{}{
		"config":   decoded,
		"location": locationKey,
	}

	return strconv.FormatUint(uint64(djb2(StableStringify(payload))), 36)
}

// StableStringify serializes a value to a canonical JSON string: object
// keys are sorted recursively at every nesting level, array order is
// preserved. Semantically identical values always serialize identically
// regardless of construction order.
func StableStringify(v interface{}) string {
	var sb strings.Builder
	stableWrite(&sb, v)
	return sb.String()
}

func stableWrite(sb *strings.Builder, v interface{}) {
	switch value := v.(type) {
	case nil:
		sb.WriteString("null")
	case map[string]interface{}:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeScalar(sb, k)
			sb.WriteByte(':')
			stableWrite(sb, value[k])
		}
		sb.WriteByte('}')
	case []interface{}:
		sb.WriteByte('[')
		for i, item := range value {
			if i > 0 {
				sb.WriteByte(',')
			}
			stableWrite(sb, item)
		}
		sb.WriteByte(']')
	default:
		writeScalar(sb, v)
	}
}

// writeScalar encodes strings, numbers and booleans with their JSON
// representation.
func writeScalar(sb *strings.Builder, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		sb.WriteString("null")
		return
	}
	sb.Write(raw)
}

// djb2 is the classic non-cryptographic string hash, truncated to 32 bits.
func djb2(s string) uint32 {
	h := uint32(5381)
	for i := 0; i < len(s); i++ {
		h = h*33 + uint32(s[i])
	}
	return h
}

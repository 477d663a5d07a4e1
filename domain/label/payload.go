package label

import "strings"

// payloadNameBudget caps the name segment of a QR payload so the encoded
// payload does not grow unboundedly with name length.
const payloadNameBudget = 60

// payloadEllipsis marks a truncated name segment.
const payloadEllipsis = "…"

// EncodePayload builds the text payload embedded in a product's QR image:
// "{code}|{name}". The name is whitespace-normalized, stripped of the "|"
// delimiter and truncated to 60 characters (ellipsis included) when longer.
// Empty code or name produces a payload with an empty segment; validating
// product completeness is the caller's job.
func EncodePayload(code, name string) string {
	name = strings.ReplaceAll(name, "|", " ")
	name = strings.Join(strings.Fields(name), " ")

	runes := []rune(name)
	if len(runes) > payloadNameBudget {
		name = string(runes[:payloadNameBudget-1]) + payloadEllipsis
	}

	return code + "|" + name
}

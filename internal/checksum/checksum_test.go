package checksum

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStableAcrossKeyOrder(t *testing.T) {
	t.Parallel()

	var a, b map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"steps": 12000, "goal": 10000, "distance": null}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"distance": null, "goal": 10000, "steps": 12000}`), &b))

	digestA, err := Compute(a)
	require.NoError(t, err)
	digestB, err := Compute(b)
	require.NoError(t, err)

	assert.Equal(t, digestA, digestB)
	assert.True(t, strings.HasPrefix(digestA, Version+":"))
}

func TestComputeStableAcrossNumberFormatting(t *testing.T) {
	t.Parallel()

	var a, b map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"distance": 5.50}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"distance": 5.5}`), &b))

	digestA, err := Compute(a)
	require.NoError(t, err)
	digestB, err := Compute(b)
	require.NoError(t, err)

	assert.Equal(t, digestA, digestB)
}

func TestComputeDistinguishesContent(t *testing.T) {
	t.Parallel()

	digestA, err := Compute(map[string]any{"steps": 12000})
	require.NoError(t, err)
	digestB, err := Compute(map[string]any{"steps": 12001})
	require.NoError(t, err)
	digestNull, err := Compute(map[string]any{"steps": nil})
	require.NoError(t, err)
	digestAbsent, err := Compute(map[string]any{})
	require.NoError(t, err)

	assert.NotEqual(t, digestA, digestB)
	// Explicit null and absent field are different logical content.
	assert.NotEqual(t, digestNull, digestAbsent)
}

func TestComputeStructAndMapAgree(t *testing.T) {
	t.Parallel()

	type payload struct {
		Steps int    `json:"steps"`
		Goal  int    `json:"goal"`
		Note  string `json:"note"`
	}

	fromStruct, err := Compute(payload{Steps: 100, Goal: 200, Note: "ok"})
	require.NoError(t, err)
	fromMap, err := Compute(map[string]any{"note": "ok", "goal": 200, "steps": 100})
	require.NoError(t, err)

	assert.Equal(t, fromStruct, fromMap)
}

func TestNeedsRewrite(t *testing.T) {
	t.Parallel()

	digest, err := Compute(map[string]any{"steps": 1})
	require.NoError(t, err)

	assert.False(t, NeedsRewrite(digest, digest))
	assert.True(t, NeedsRewrite("", digest))
	assert.True(t, NeedsRewrite("v0:deadbeef", digest))

	other, err := Compute(map[string]any{"steps": 2})
	require.NoError(t, err)
	assert.True(t, NeedsRewrite(digest, other))
}

func TestVerifyDetectsTampering(t *testing.T) {
	t.Parallel()

	payload := map[string]any{"steps": 12000, "goal": 10000}
	digest, err := Compute(payload)
	require.NoError(t, err)

	require.NoError(t, Verify(payload, digest))

	payload["steps"] = 1

	err = Verify(payload, digest)
	require.Error(t, err)

	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, digest, mismatch.Stored)
	assert.NotEqual(t, mismatch.Stored, mismatch.Computed)
}

func TestCanonicalCompactAndSorted(t *testing.T) {
	t.Parallel()

	got, err := Canonical(map[string]any{"b": 2, "a": 1, "c": nil})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2,"c":null}`, string(got))
}

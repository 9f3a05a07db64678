package sharedtest

import (
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ParseRecord parses a serialized event record, failing the test if it is not a JSON object.
func ParseRecord(t *testing.T, data []byte) ldvalue.Value {
	value := ldvalue.Parse(data)
	require.Equal(t, ldvalue.ObjectType, value.Type(), "not a JSON object: %s", data)
	return value
}

// AssertRecordContains asserts that every property of expected has the same value in actual.
// Properties of actual that are not in expected are ignored.
func AssertRecordContains(t *testing.T, expected ldvalue.Value, actual ldvalue.Value) bool {
	ok := true
	for _, key := range expected.Keys(nil) {
		ok = assert.Equal(t, expected.GetByKey(key), actual.GetByKey(key), "property %q", key) && ok
	}
	return ok
}

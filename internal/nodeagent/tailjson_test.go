package nodeagent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastJSONObjectPlainPayload(t *testing.T) {
	raw := []byte(`{"node_name":"worker01","hostname":"worker01.local"}`)
	p, ok := LastJSONObject(raw)
	assert.True(t, ok)
	assert.Equal(t, "worker01", p.NodeName)
}

func TestLastJSONObjectSkipsLeadingDiagnosticLines(t *testing.T) {
	raw := []byte("collecting facts...\nwarning: selinux check slow\n" + `{"node_name":"worker02"}`)
	p, ok := LastJSONObject(raw)
	assert.True(t, ok)
	assert.Equal(t, "worker02", p.NodeName)
}

func TestLastJSONObjectPicksLastCompleteObjectWhenMultiplePresent(t *testing.T) {
	raw := []byte(`{"node_name":"stale"}` + "\nsome interleaved stderr\n" + `{"node_name":"worker03","uptime":"4d"}`)
	p, ok := LastJSONObject(raw)
	assert.True(t, ok)
	assert.Equal(t, "worker03", p.NodeName)
}

func TestLastJSONObjectIgnoresBracesInsideStrings(t *testing.T) {
	raw := []byte(`{"node_name":"worker04","hostname":"load avg {1.0, 2.0}"}`)
	p, ok := LastJSONObject(raw)
	assert.True(t, ok)
	assert.Equal(t, "worker04", p.NodeName)
	assert.Equal(t, "load avg {1.0, 2.0}", p.Hostname)
}

func TestLastJSONObjectReturnsFalseOnTruncatedTail(t *testing.T) {
	raw := []byte(`{"node_name":"worker05","hostname":"partial`)
	_, ok := LastJSONObject(raw)
	assert.False(t, ok)
}

func TestLastJSONObjectReturnsFalseWhenNodeNameMissing(t *testing.T) {
	raw := []byte(`{"hostname":"no-node-name"}`)
	_, ok := LastJSONObject(raw)
	assert.False(t, ok)
}

func TestLastJSONObjectReturnsFalseOnNoObject(t *testing.T) {
	_, ok := LastJSONObject([]byte("no json here at all"))
	assert.False(t, ok)
}

package redact_test

import (
	"github.com/reliefops/ers-go/lib/redact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

type inner struct {
	Token string `redact:"true"`
	Name  string
}

type outer struct {
	Host    string
	Secret  string `redact:"true"`
	Ports   []int32
	Nested  inner
	Hidden  inner   `redact:"true"`
	Tenants []inner `redact:"true"`
}

func TestToBytes(t *testing.T) {
	t.Parallel()
	cfg := outer{
		Host:    "localhost",
		Secret:  "hunter2",
		Ports:   []int32{80, 8080},
		Nested:  inner{Token: "abc123", Name: "visible"},
		Hidden:  inner{Token: "def456", Name: "invisible"},
		Tenants: []inner{{Token: "tok", Name: "gone"}},
	}
	b, err := redact.ToBytes(&cfg)
	require.NoError(t, err)
	s := string(b)

	assert.Contains(t, s, "Host = localhost")
	assert.Contains(t, s, "[80 8080]")
	assert.Contains(t, s, "visible")
	assert.NotContains(t, s, "hunter2")
	assert.NotContains(t, s, "abc123")
	assert.NotContains(t, s, "def456")
	assert.NotContains(t, s, "invisible")
	assert.NotContains(t, s, "gone")
}

func TestToBytesUnsupportedKind(t *testing.T) {
	t.Parallel()
	bad := struct {
		M map[string]string
	}{M: map[string]string{}}
	_, err := redact.ToBytes(&bad)
	require.ErrorContains(t, err, "unsupported field kind")
}

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLocation(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"http://example.org/s/registryObjects.xsd", "party.xsd", "http://example.org/s/party.xsd"},
		{"http://example.org/s/registryObjects.xsd", "../x/types.xsd", "http://example.org/x/types.xsd"},
		{"http://example.org/s/registryObjects.xsd", "http://www.w3.org/2001/xml.xsd", "http://www.w3.org/2001/xml.xsd"},
		{"mirror/registryObjects.xsd", "party.xsd", "mirror/party.xsd"},
		{"registryObjects.xsd", "party.xsd", "party.xsd"},
		{"", "party.xsd", "party.xsd"},
		{"mirror/registryObjects.xsd", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveLocation(tt.base, tt.ref), "%s + %s", tt.base, tt.ref)
	}
}

package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecretNameQualification(t *testing.T) {
	s := &SecretsClient{prefix: DefaultSecretsPrefix}

	assert.Equal(t, "portal/MONGO_URI", s.qualify("MONGO_URI"))

	// fully qualified names pass through untouched
	assert.Equal(t, "shared/db/MONGO_URI", s.qualify("shared/db/MONGO_URI"))
	assert.Equal(t, "portal/MONGO_URI", s.qualify("portal/MONGO_URI"))

	staging := &SecretsClient{prefix: "staging-portal/"}
	assert.Equal(t, "staging-portal/MONGO_URI", staging.qualify("MONGO_URI"))
}

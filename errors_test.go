package kiroku_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashita-ai/kiroku"
)

func TestSerializationError(t *testing.T) {
	cause := errors.New("boom")
	err := &kiroku.SerializationError{What: "trace", Err: cause}

	assert.Equal(t, "kiroku: serialize trace: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	var serr *kiroku.SerializationError
	assert.ErrorAs(t, error(err), &serr)
}

func TestAgentKinds_ClosedSet(t *testing.T) {
	kinds := kiroku.AgentKinds()
	assert.Len(t, kinds, kiroku.NumAgentKinds)

	seen := make(map[kiroku.AgentKind]bool)
	for _, k := range kinds {
		assert.NotEmpty(t, k.String())
		seen[k] = true
	}
	assert.Len(t, seen, kiroku.NumAgentKinds)
}

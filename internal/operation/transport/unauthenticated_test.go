package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnauthenticatedTransport_Execute(t *testing.T) {
	cause := errors.New("secret not found")
	tr := &UnauthenticatedTransport{Cause: cause}

	resp, err := tr.Execute(context.Background(), &Request{Method: "GET", URL: "https://api.imagekit.io/v1/files"})
	assert.Nil(t, resp)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, ErrorTypeAuth, te.Type)
	assert.Equal(t, "GET", te.Method)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, te.Suggestion(), "ikpack auth login")
	assert.Equal(t, "unauthenticated", tr.Name())
}

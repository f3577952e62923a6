package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusOK, StatusCode(nil))
	assert.Equal(t, http.StatusBadRequest, StatusCode(NewMissingParamError("path")))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))

	notFound := &FetchError{URL: "https://x.test/a/", Via: "direct", StatusCode: 404}
	assert.Equal(t, http.StatusNotFound, StatusCode(notFound))
	assert.Equal(t, http.StatusNotFound, StatusCode(fmt.Errorf("wrapped: %w", notFound)))
	assert.Equal(t, http.StatusNotFound, StatusCode(NewUpstreamError("page unavailable", notFound)))

	server := &FetchError{URL: "https://x.test/a/", Via: "direct", StatusCode: 503}
	assert.Equal(t, http.StatusInternalServerError, StatusCode(NewUpstreamError("page unavailable", server)))
}

func TestMessages(t *testing.T) {
	err := NewMissingParamError("path")
	assert.Contains(t, PublicMessage(err), "path")

	fe := &FetchError{URL: "https://x.test/", Via: "direct", StatusCode: 503}
	assert.Equal(t, "fetch https://x.test/ via direct failed: HTTP 503", fe.Error())
	assert.Contains(t, PublicMessage(NewUpstreamError("page unavailable", fe)), "HTTP 503")

	assert.Equal(t, "Internal server error", PublicMessage(errors.New("secret detail")))
}

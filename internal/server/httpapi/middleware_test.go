package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/notetake/internal/api"
	"github.com/dmitrijs2005/notetake/internal/common"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_Generated(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(&fakeCollaborators{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, api.PathHealth, nil))

	id := rec.Header().Get(common.RequestIDHeader)
	require.NotEmpty(t, id)
	_, err := ulid.Parse(id)
	assert.NoError(t, err)
}

func TestRequestID_Propagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, api.PathHealth, nil)
	req.Header.Set(common.RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	newTestHandler(&fakeCollaborators{}).ServeHTTP(rec, req)

	assert.Equal(t, "abc", rec.Header().Get(common.RequestIDHeader))
}

func TestCORS_AllowsAnyOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, api.PathDeleteImage, nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	rec := httptest.NewRecorder()
	newTestHandler(&fakeCollaborators{}).ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusRecorder_DefaultsToOK(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	_, err := rec.Write([]byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.status)
	assert.Equal(t, 2, rec.bytes)
}

package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"focuslist/focuslist/database"
	"focuslist/focuslist/testutils"
	"focuslist/focuslist/utils/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testDB = &database.Database{}

// newTestRouter returns an engine whose /api/v1 group acts as userID.
func newTestRouter(userID uuid.UUID) (*gin.Engine, *gin.RouterGroup) {
	router := gin.New()
	group := router.Group("/api/v1", testutils.WithUser(userID))
	return router, group
}

func perform(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierror.Err {
	t.Helper()
	var body apierror.JsonErr
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.ErrDetails
}

func newUnauthenticatedRouter() *gin.Engine {
	return gin.New()
}

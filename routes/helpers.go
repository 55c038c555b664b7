package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"focuslist/focuslist/utils/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentUserID returns the authenticated user set by AuthMiddleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("userID")
	if !exists {
		apierror.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		apierror.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses a UUID path parameter, preferring the value already parsed by
// RequireUUIDParams.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	if value, exists := c.Get(name); exists {
		if id, ok := value.(uuid.UUID); ok {
			return id, true
		}
	}
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		apierror.BadRequest(c, "Invalid "+name, map[string]string{name: "must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the request body into dst. An empty body is allowed when
// allowEmpty is set.
func bindJSON(c *gin.Context, dst interface{}, allowEmpty bool) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		apierror.BadRequest(c, "Malformed JSON body", nil)
		return false
	}
	return true
}

// bindPatch decodes a PATCH body into dst and reports which top-level keys
// were present, so explicit nulls can be told apart from omitted fields.
func bindPatch(c *gin.Context, dst interface{}) (map[string]bool, bool) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		apierror.BadRequest(c, "Malformed JSON body", nil)
		return nil, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		apierror.BadRequest(c, "Malformed JSON body", nil)
		return nil, false
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	if err := decoder.Decode(dst); err != nil {
		apierror.BadRequest(c, "Malformed JSON body", nil)
		return nil, false
	}

	present := make(map[string]bool, len(fields))
	for key := range fields {
		present[key] = true
	}
	return present, true
}

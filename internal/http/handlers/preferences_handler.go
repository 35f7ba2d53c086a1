// Preferences HTTP handlers.
//
//   - GET /preferences
//   - PUT /preferences   (partial update)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-sparky-backend/internal/services"
)

// GetPreferences godoc
// @ID          getPreferences
// @Summary     Get coach preferences
// @Description Returns the stored preferences or the defaults (auto_clear_history=never, timezone=UTC).
// @Tags        Preferences
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (when JWT auth is off)"  example(user123)
// @Success     200  {object}  domain.UserPreferences
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /preferences [get]
func (h *Handlers) GetPreferences(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}
	p, err := h.prefs.Get(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, p)
}

// UpdatePreferences godoc
// @ID          updatePreferences
// @Summary     Update coach preferences
// @Tags        Preferences
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (when JWT auth is off)"  example(user123)
// @Param       body       body    services.PreferencesInput  true  "Fields to change"
// @Success     200  {object}  domain.UserPreferences
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /preferences [put]
func (h *Handlers) UpdatePreferences(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}
	var in services.PreferencesInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	p, err := h.prefs.Update(c.Request.Context(), uid, in)
	if err != nil {
		failErr(c, err, ErrCodeSaveFailed)
		return
	}
	ok(c, http.StatusOK, p)
}

// Chat history HTTP handlers.
//
// This file exposes the transcript endpoints:
//   - GET    /chat/history             (list, paginated, oldest first, ETag support)
//   - POST   /chat/history             (append a turn)
//   - DELETE /chat/history             (clear)
//   - POST   /chat/history/clear-old   (apply the retention preference now)
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-sparky-backend/internal/domain"
)

// AppendTurnRequest is the JSON payload for saving a turn.
type AppendTurnRequest struct {
	Role     string         `json:"role"     binding:"required" example:"user"`
	Content  string         `json:"content"  binding:"required" example:"I walked 30 minutes"`
	Metadata map[string]any `json:"metadata"`
}

// ListHistoryResponse wraps a page of turns and pagination information.
type ListHistoryResponse struct {
	Turns      []domain.ChatTurn `json:"turns"`
	Pagination Pagination        `json:"pagination"`
}

// DeletedResponse reports how many turns were removed.
type DeletedResponse struct {
	Deleted int64 `json:"deleted" example:"12"`
}

// ListHistory godoc
// @ID          listHistory
// @Summary     List chat history (paginated)
// @Description Returns a page of the user's transcript, oldest first. The 7days retention policy is applied before listing. Supports weak ETag via If-None-Match and may return 304.
// @Tags        History
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (when JWT auth is off)"  example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"      example(W/\"history:user123:4:1700000000\")
// @Param       page           query   int     false "Page number"                      minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"                   minimum(1) maximum(200) default(50)
//
// @Success     200  {object} handlers.ListHistoryResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /chat/history [get]
func (h *Handlers) ListHistory(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort). Retention runs inside List, so a stale
	// tag only costs one extra full response.
	if count, maxTS, err := h.history.Stats(ctx, uid); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		etag := fmt.Sprintf(`W/"history:%s:%d:%d:%d:%d"`, uid, count, ts, page, pageSize)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.history.List(ctx, uid, page, pageSize)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	if items == nil {
		items = []domain.ChatTurn{}
	}
	ok(c, http.StatusOK, ListHistoryResponse{Turns: items, Pagination: newPagination(page, pageSize, total)})
}

// AppendHistory godoc
// @ID          appendHistory
// @Summary     Save a chat turn
// @Description Stores a turn supplied by the client (for example a locally generated greeting).
// @Tags        History
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (when JWT auth is off)"  example(user123)
// @Param       body       body    handlers.AppendTurnRequest  true  "Turn"
//
// @Success     201  {object}  domain.ChatTurn
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/history [post]
func (h *Handlers) AppendHistory(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}
	var req AppendTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "role and content are required")
		return
	}
	turn, err := h.history.Append(c.Request.Context(), uid, strings.ToLower(strings.TrimSpace(req.Role)), req.Content, req.Metadata)
	if err != nil {
		failErr(c, err, ErrCodeSaveFailed)
		return
	}
	ok(c, http.StatusCreated, turn)
}

// ClearHistory godoc
// @ID          clearHistory
// @Summary     Clear chat history
// @Tags        History
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (when JWT auth is off)"  example(user123)
// @Success     200  {object}  handlers.DeletedResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/history [delete]
func (h *Handlers) ClearHistory(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}
	n, err := h.history.Clear(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, DeletedResponse{Deleted: n})
}

// ClearOldHistory godoc
// @ID          clearOldHistory
// @Summary     Apply the history retention preference
// @Description Session-start hook. "all" and "session" clear the transcript, "7days" drops turns older than a week, "never" keeps everything.
// @Tags        History
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (when JWT auth is off)"  example(user123)
// @Success     200  {object}  handlers.DeletedResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/history/clear-old [post]
func (h *Handlers) ClearOldHistory(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}
	n, err := h.history.ApplyRetention(c.Request.Context(), uid, true)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, DeletedResponse{Deleted: n})
}

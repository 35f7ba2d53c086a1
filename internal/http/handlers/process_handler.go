// Chat turn HTTP handler.
//
// This file exposes the coach entry point:
//   - POST /chat/process-input   (multipart or urlencoded form)
//
// Each turn is keyed by its transactionId (or Idempotency-Key header). A
// retried turn is answered from the replay store without calling the
// provider or writing diary entries twice.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-sparky-backend/internal/http/middleware"
	"github.com/tbourn/go-sparky-backend/internal/llm"
	"github.com/tbourn/go-sparky-backend/internal/services"
)

var (
	errImageTooLarge = errors.New("image exceeds the upload limit")
	errNotAnImage    = errors.New("uploaded file is not an image")
)

// ProcessInput godoc
// @ID          processInput
// @Summary     Run one coach chat turn
// @Description Extracts the intent of the message (and optional image), logs food, exercise, measurements or water, and returns the coach reply. Retries with the same transactionId replay the stored reply.
// @Tags        Chat
// @Accept      multipart/form-data
// @Produce     json
//
// @Param       X-User-ID               header    string  false "User ID (when JWT auth is off)"  example(user123)
// @Param       Idempotency-Key         header    string  false "Alternative to transactionId"
// @Param       input                   formData  string  false "User message"                   example(I had 2 eggs for breakfast)
// @Param       userId                  formData  string  false "Must match the authenticated user"
// @Param       transactionId           formData  string  false "Client turn id used for replays"
// @Param       image                   formData  file    false "Food or scale photo"
// @Param       lastBotMessageMetadata  formData  string  false "Metadata JSON of the previous assistant reply"
// @Param       timezone                formData  string  false "IANA zone overriding the stored preference"  example(Europe/London)
//
// @Success     200  {object}  services.CoachResponse
// @Header      200  {string}  Idempotency-Replayed  "true when served from the replay store"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "userId does not match the caller"
// @Failure     413  {object}  handlers.ErrorResponse  "Image too large"
// @Failure     415  {object}  handlers.ErrorResponse  "Image part is not an image"
// @Router      /chat/process-input [post]
func (h *Handlers) ProcessInput(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}
	if claimed := strings.TrimSpace(c.PostForm("userId")); claimed != "" && claimed != uid {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "userId does not match the authenticated user")
		return
	}
	ctx := c.Request.Context()
	lg := middleware.LoggerFrom(c)

	key, _ := middleware.GetIdempotencyKey(c)
	if key == "" {
		key = strings.TrimSpace(c.PostForm("transactionId"))
	}
	if key != "" && h.replay != nil {
		stored, found, err := h.replay.Lookup(ctx, uid, key)
		if err != nil {
			lg.Warn().Err(err).Msg("replay lookup failed")
		} else if found {
			c.Header(middleware.HeaderIdempotencyReplayed, "true")
			middleware.RecordCoachAction(stored.Action, true)
			ok(c, http.StatusOK, stored)
			return
		}
	}

	img, err := readImage(c, h.maxImageBytes)
	switch {
	case errors.Is(err, errImageTooLarge):
		fail(c, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, err.Error())
		return
	case errors.Is(err, errNotAnImage):
		fail(c, http.StatusUnsupportedMediaType, ErrCodeUnsupportedMedia, err.Error())
		return
	case err != nil:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "could not read image upload")
		return
	}

	text := strings.TrimSpace(c.PostForm("input"))
	if text == "" && img == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "input or image is required")
		return
	}

	var lastMeta json.RawMessage
	if raw := strings.TrimSpace(c.PostForm("lastBotMessageMetadata")); raw != "" && raw != "null" {
		if !json.Valid([]byte(raw)) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "lastBotMessageMetadata must be JSON")
			return
		}
		lastMeta = json.RawMessage(raw)
	}

	resp := h.coach.ProcessInput(ctx, services.ProcessInput{
		UserID:          uid,
		Text:            text,
		Image:           img,
		LastBotMetadata: lastMeta,
		Timezone:        strings.TrimSpace(c.PostForm("timezone")),
	})

	if key != "" && h.replay != nil {
		if err := h.replay.Save(ctx, uid, key, resp); err != nil {
			lg.Warn().Err(err).Msg("replay save failed")
		}
	}
	middleware.RecordCoachAction(resp.Action, false)
	ok(c, http.StatusOK, resp)
}

// readImage returns the optional "image" part. The MIME type is sniffed from
// the bytes; the client's Content-Type is not trusted.
func readImage(c *gin.Context, limit int64) (*llm.Image, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size > limit {
		return nil, errImageTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errImageTooLarge
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return nil, errNotAnImage
	}
	return &llm.Image{MIMEType: mime, Data: data}, nil
}

// FatSecret proxy HTTP handlers.
//
//   - GET /foods/fatsecret/search?query=&max_results=&page=
//   - GET /foods/fatsecret/nutrients?food_id=
//
// Both answer 503 with code integration_disabled when no FatSecret
// credentials are configured.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-sparky-backend/internal/nutrition"
	"github.com/tbourn/go-sparky-backend/internal/utils"
)

// SearchFoods godoc
// @ID          searchFoods
// @Summary     Search the FatSecret food database
// @Tags        Foods
// @Produce     json
// @Param       X-User-ID    header  string  false "User ID (when JWT auth is off)"  example(user123)
// @Param       query        query   string  true  "Search expression"  example(greek yogurt)
// @Param       max_results  query   int     false "Results per page"   minimum(1) maximum(50) default(20)
// @Param       page         query   int     false "Zero-based page"    minimum(0) default(0)
// @Success     200  {object}  nutrition.SearchResult
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     502  {object}  handlers.ErrorResponse  "FatSecret error"
// @Failure     503  {object}  handlers.ErrorResponse  "Integration disabled"
// @Router      /foods/fatsecret/search [get]
func (h *Handlers) SearchFoods(c *gin.Context) {
	if h.foods == nil {
		failErr(c, nutrition.ErrDisabled, ErrCodeInternal)
		return
	}
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query is required")
		return
	}
	page := max(utils.AtoiDefault(c.Query("page"), 0), 0)
	res, err := h.foods.Search(c.Request.Context(), query, page, utils.AtoiDefault(c.Query("max_results"), 0))
	if err != nil {
		failErr(c, err, ErrCodeUpstreamFailed)
		return
	}
	ok(c, http.StatusOK, res)
}

// FoodNutrients godoc
// @ID          foodNutrients
// @Summary     Get nutrients of a FatSecret food
// @Description Results are cached for five minutes per food id.
// @Tags        Foods
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (when JWT auth is off)"  example(user123)
// @Param       food_id    query   string  true  "FatSecret food id"  example(33691)
// @Success     200  {object}  nutrition.FoodDetail
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     502  {object}  handlers.ErrorResponse  "FatSecret error"
// @Failure     503  {object}  handlers.ErrorResponse  "Integration disabled"
// @Router      /foods/fatsecret/nutrients [get]
func (h *Handlers) FoodNutrients(c *gin.Context) {
	if h.foods == nil {
		failErr(c, nutrition.ErrDisabled, ErrCodeInternal)
		return
	}
	id := strings.TrimSpace(c.Query("food_id"))
	if id == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "food_id is required")
		return
	}
	detail, err := h.foods.Nutrients(c.Request.Context(), id)
	if err != nil {
		failErr(c, err, ErrCodeUpstreamFailed)
		return
	}
	ok(c, http.StatusOK, detail)
}

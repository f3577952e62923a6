package handlers

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) handleHome(c *gin.Context) {
	env, err := h.scraper.Home(c.Request.Context())
	h.respond(c, env, err)
}

func (h *Handler) handleSection(c *gin.Context) {
	env, err := h.scraper.Section(c.Request.Context(), c.Query("section"))
	h.respond(c, env, err)
}

func (h *Handler) handleCatalog(c *gin.Context) {
	env, err := h.scraper.Catalog(c.Request.Context(), c.Query("type"), c.Query("page"))
	h.respond(c, env, err)
}

func (h *Handler) handleCategory(c *gin.Context) {
	env, err := h.scraper.Category(c.Request.Context(), c.Query("path"), c.Query("type"), c.Query("page"))
	h.respond(c, env, err)
}

func (h *Handler) handleLetter(c *gin.Context) {
	env, err := h.scraper.Letter(c.Request.Context(), c.Query("letter"), c.Query("page"))
	h.respond(c, env, err)
}

func (h *Handler) handleSearch(c *gin.Context) {
	query := firstNonEmpty(c.Query("q"), c.Query("s"))
	env, err := h.scraper.Search(c.Request.Context(), query, c.Query("type"), c.Query("page"))
	h.respond(c, env, err)
}

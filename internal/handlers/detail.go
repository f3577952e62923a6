package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/amaumene/gostreamfr/internal/services"
)

func (h *Handler) handleSeries(c *gin.Context) {
	req := services.SeriesRequest{
		Slug:    firstNonEmpty(c.Query("slug"), c.Query("series")),
		Seasons: firstNonEmpty(c.Query("seasons"), c.Query("season")),
		Servers: parseFlag(firstNonEmpty(c.Query("servers"), c.Query("server"))),
	}
	env, err := h.scraper.Series(c.Request.Context(), req)
	h.respond(c, env, err)
}

func (h *Handler) handleMovie(c *gin.Context) {
	env, err := h.scraper.Movie(c.Request.Context(), c.Query("slug"))
	h.respond(c, env, err)
}

func (h *Handler) handleEpisode(c *gin.Context) {
	req := services.EpisodeRequest{
		URL:    c.Query("url"),
		Slug:   c.Query("slug"),
		Server: c.Query("server"),
	}
	env, err := h.scraper.Episode(c.Request.Context(), req)
	h.respond(c, env, err)
}

func (h *Handler) handleEmbed(c *gin.Context) {
	env, err := h.scraper.Embed(c.Request.Context(), c.Query("src"))
	h.respond(c, env, err)
}

func (h *Handler) handleMeta(c *gin.Context) {
	env, err := h.scraper.Meta(c.Request.Context(), c.Query("url"))
	h.respond(c, env, err)
}

package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rm-hull/brand-insights-api/internal"
	"github.com/rm-hull/brand-insights-api/internal/models"
)

const MAX_TEXT_LENGTH = 100_000 // Longer texts are rejected rather than scanned

func Extract(engines *internal.EngineHolder) func(c *gin.Context) {
	return func(c *gin.Context) {
		var req models.ExtractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if len(req.Text) > MAX_TEXT_LENGTH {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "text is too long"})
			return
		}

		c.JSON(http.StatusOK, models.ExtractResponse{
			Insight: engines.Get().Extract(req.Text),
		})
	}
}

func Match(engines *internal.EngineHolder) func(c *gin.Context) {
	return func(c *gin.Context) {
		candidate := strings.TrimSpace(c.Query("q"))
		if candidate == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing q parameter"})
			return
		}

		c.JSON(http.StatusOK, models.MatchResponse{
			Candidate: candidate,
			Match:     engines.Get().Matcher.Matches(strings.ToLower(candidate)),
		})
	}
}

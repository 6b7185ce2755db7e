package handlers

import (
	"net/http"

	"github.com/circleone/member-directory/internal/oauth"
	"github.com/circleone/member-directory/internal/services"
	"github.com/gin-gonic/gin"
)

// HomeHandler serves the landing page and the health check.
type HomeHandler struct {
	accounts  *services.AccountService
	providers *oauth.Registry
}

func NewHomeHandler(accounts *services.AccountService, providers *oauth.Registry) *HomeHandler {
	return &HomeHandler{accounts: accounts, providers: providers}
}

// Index shows the community counters.
func (h *HomeHandler) Index(c *gin.Context) {
	stats, err := h.accounts.Stats(c.Request.Context())
	if err != nil {
		c.Error(err)
		stats = &services.Stats{}
	}
	render(c, http.StatusOK, gin.H{
		"member_count":   stats.Members,
		"business_count": stats.Businesses,
	})
}

// Health reports liveness and which login providers are available.
func (h *HomeHandler) Health(c *gin.Context) {
	providers := h.providers.Names()
	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"message":          "CircleOne is running",
		"oauth_configured": len(providers) > 0,
		"providers":        providers,
	})
}

package handler

import (
	"net/http"

	"github.com/routekit/routekit/internal/api/models"
	"github.com/routekit/routekit/internal/api/response"
	"github.com/routekit/routekit/internal/profile"
)

// ProfilesHandler handles the profile catalog endpoint.
type ProfilesHandler struct{}

// NewProfilesHandler creates a new ProfilesHandler.
func NewProfilesHandler() *ProfilesHandler {
	return &ProfilesHandler{}
}

// ListProfiles handles GET /v1/profiles - list the bundled profile catalog.
func (h *ProfilesHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	catalog := profile.Catalog()
	infos := make([]models.ProfileInfo, len(catalog))
	for i, key := range catalog {
		infos[i] = models.ProfileInfo{Key: string(key)}
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	response.JSON(w, r, http.StatusOK, models.ProfilesResponse{Profiles: infos})
}

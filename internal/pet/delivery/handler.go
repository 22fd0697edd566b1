package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shilei0825/wag-well-record/internal/pet/repository"
)

// PetHandler serves the read-only pet listing the triage screens need.
type PetHandler struct {
	petRepo repository.PetRepository
}

// NewPetHandler creates a new PetHandler
func NewPetHandler(petRepo repository.PetRepository) *PetHandler {
	return &PetHandler{petRepo: petRepo}
}

// ListPets returns the authenticated user's pets
// GET /api/pets
func (h *PetHandler) ListPets(c *gin.Context) {
	userID := c.GetString("userID")

	pets, err := h.petRepo.FindByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pets": pets, "total": len(pets)})
}

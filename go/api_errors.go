package petstoreserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	petsapp "github.com/Apurer/petstore-contract-tests/internal/domains/pets/application"
	apierrors "github.com/Apurer/petstore-contract-tests/internal/shared/errors"
)

// petErrors maps application failures that do not depend on the route onto ApiResponse bodies.
// Not-found is route specific and handled by the caller.
var petErrors = apierrors.NewChainedResponder(
	func(err error) (apierrors.ApiResponse, bool) {
		if errors.Is(err, petsapp.ErrInvalidInput) {
			return apierrors.ErrBadInput, true
		}
		return apierrors.ApiResponse{}, false
	},
)

func respondPetServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	petErrors.RespondError(c, err)
}

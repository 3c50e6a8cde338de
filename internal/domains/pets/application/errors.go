package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid pet input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNegativeID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

package contract

import (
	"fmt"
	"net/url"

	"github.com/oapi-codegen/runtime"
)

// Endpoints builds pet store paths and queries, styled the way the OpenAPI
// document declares its parameters.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// Pets is the collection used by create and update.
func (e *Endpoints) Pets() string {
	return "/pet"
}

// PetsTrailingSlash is the collection path with a trailing slash, which the
// pet store routes differently per method.
func (e *Endpoints) PetsTrailingSlash() string {
	return "/pet/"
}

// Pet addresses a single pet. The id may be any value, including non-numeric
// strings, so invalid ids can be exercised.
func (e *Endpoints) Pet(id any) (string, error) {
	param, err := runtime.StyleParamWithLocation("simple", false, "petId", runtime.ParamLocationPath, id)
	if err != nil {
		return "", fmt.Errorf("styling petId: %w", err)
	}
	return "/pet/" + param, nil
}

// MustPet is like Pet but panics on error. It is meant for static case tables.
func (e *Endpoints) MustPet(id any) string {
	path, err := e.Pet(id)
	if err != nil {
		panic(err)
	}
	return path
}

// FindByStatus returns the path and query for a status search.
func (e *Endpoints) FindByStatus(statuses ...string) (string, url.Values, error) {
	query, err := formQuery("status", statuses)
	if err != nil {
		return "", nil, err
	}
	return "/pet/findByStatus", query, nil
}

// FindByTags returns the path and query for a tag search.
func (e *Endpoints) FindByTags(tags ...string) (string, url.Values, error) {
	query, err := formQuery("tags", tags)
	if err != nil {
		return "", nil, err
	}
	return "/pet/findByTags", query, nil
}

func formQuery(name string, values []string) (url.Values, error) {
	queryValues := url.Values{}
	if len(values) == 0 {
		return queryValues, nil
	}
	queryFrag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, values)
	if err != nil {
		return nil, fmt.Errorf("styling %s: %w", name, err)
	}
	parsed, err := url.ParseQuery(queryFrag)
	if err != nil {
		return nil, fmt.Errorf("parsing %s query: %w", name, err)
	}
	for k, v := range parsed {
		for _, v2 := range v {
			queryValues.Add(k, v2)
		}
	}
	return queryValues, nil
}

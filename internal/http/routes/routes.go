package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/ibm-devops/code-engine-welcome/internal/http/v1/welcome"
)

// Register wires all huma operations into the provided API router.
func Register(api huma.API) {
	welcome.Register(api)
}

package welcome

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/ibm-devops/code-engine-welcome/internal/message"
	applog "github.com/ibm-devops/code-engine-welcome/internal/platform/logging"
)

// Register wires the welcome routes into the provided API router.
func Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-root",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Welcome message",
		Tags:        []string{"Welcome"},
	}, getHandler("/"))

	huma.Register(api, huma.Operation{
		OperationID: "get-welcome",
		Method:      http.MethodGet,
		Path:        "/welcome",
		Summary:     "Welcome message",
		Tags:        []string{"Welcome"},
	}, getHandler("/welcome"))
}

func getHandler(path string) func(context.Context, *struct{}) (*GetOutput, error) {
	return func(ctx context.Context, _ *struct{}) (*GetOutput, error) {
		ctx = applog.WithFields(ctx, zap.String("operation", "welcome"), zap.String("path", path))
		applog.LogDebug(ctx, "welcome get")
		return &GetOutput{Body: Data{Message: message.WelcomeMessage()}}, nil
	}
}

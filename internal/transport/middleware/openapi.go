package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/transport"
)

// OpenAPIValidator rejects requests that do not match the published API
// document before they reach a handler. Paths the document does not
// describe pass through untouched.
type OpenAPIValidator struct {
	*transport.BaseHandler
	router routers.Router
}

func init() {
	openapi3.DefineStringFormatValidator("uuid", openapi3.NewRegexpFormatValidator(openapi3.FormatOfStringForUUIDOfRFC4122))
}

// NewOpenAPIValidator parses and validates the document in spec.
func NewOpenAPIValidator(spec []byte, logger *slog.Logger) (*OpenAPIValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	return &OpenAPIValidator{BaseHandler: transport.NewBaseHandler(logger), router: router}, nil
}

func (v *OpenAPIValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, pathParams, err := v.router.FindRoute(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				// bearer tokens are checked by the auth middleware
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				MultiError:         true,
			},
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			v.WriteAppError(w, requestError(err))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestError(err error) *internal.AppError {
	var details []internal.ValidationError
	var multi openapi3.MultiError
	if !errors.As(err, &multi) {
		multi = openapi3.MultiError{err}
	}
	for _, e := range multi {
		ve := internal.ValidationError{Message: e.Error(), Code: string(internal.ErrCodeValidationFailed)}
		var reqErr *openapi3filter.RequestError
		if errors.As(e, &reqErr) {
			if reqErr.Parameter != nil {
				ve.Field = reqErr.Parameter.Name
			}
			ve.Message = reqErr.Reason
			if ve.Message == "" && reqErr.Err != nil {
				ve.Message = reqErr.Err.Error()
			}
		}
		details = append(details, ve)
	}
	return internal.NewValidationError("request does not match the API schema", internal.ErrCodeValidationFailed).
		WithDetails(internal.ValidationErrors{Errors: details})
}

// Package api carries the published OpenAPI document of the console.
package api

import _ "embed"

//go:embed openapi.yml
var OpenAPI []byte

package main

// General API documentation for swaggo. Run `swag init -g cmd/advisord/docs.go`
// to regenerate docs before building with -tags=swagger.
//
// @title           advisord API
// @version         1.0
// @description     HTTP API for local LLM lifecycle management and text generation.
//
// @contact.name   advisord maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http

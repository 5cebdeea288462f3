package main

// General API documentation for swaggo. Run `swag init -g cmd/mlserve/docs.go` to regenerate docs.
//
// @title           mlserve API
// @version         1.0
// @description     HTTP API for single-model vision and text inference.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http

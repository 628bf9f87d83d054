package main

// General API documentation for swaggo. Run `swag init -g cmd/reflectd/docs.go` to regenerate docs.
//
// @title           reflectd API
// @version         1.0
// @description     Model orchestration for a journaling app: mood analysis, reflection, summaries, chat, speech and embeddings.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http

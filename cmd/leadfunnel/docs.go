package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           leadfunnel API
// @version         1.0
// @description     HTTP API for the residential solar lead capture funnel.
//
// @contact.name   leadfunnel maintainers
// @contact.url    https://github.com/your-org/leadfunnel
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http

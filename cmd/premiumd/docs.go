package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           premiumd API
// @version         1.0
// @description     HTTP API for insurance charge prediction and dataset analytics.
//
// @contact.name   premiumd maintainers
// @contact.url    https://github.com/your-org/premiumd
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http

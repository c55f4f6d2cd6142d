package docs

// @title           Fleetmaster API
// @version         1.0
// @description     Fleet management backend. Owner accounts manage vehicles, drivers and maintenance reports; drivers log in with access codes to track shifts. Maintenance analytics aggregates costs, recurring issues and fleet health.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token. Owner and driver tokens are both accepted; each route checks the identity kind.

package docs

import "github.com/swaggo/swag"

// @title Food Delivery API
// @version 1.0
// @description Order lifecycle and rider matching API for the food delivery service
// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
var SwaggerInfo = &swag.Spec{
	Version:     "1.0",
	Host:        "localhost:8080",
	BasePath:    "/api/v1",
	Title:       "Food Delivery API",
	Description: "Order lifecycle and rider matching API for the food delivery service",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

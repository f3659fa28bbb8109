package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/caminho-companion/api/cmd/app"
)

// @contact.name   Caminho Companion
// @contact.email  contato@caminho-companion.com
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token issued by the identity provider
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}

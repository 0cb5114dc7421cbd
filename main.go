/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	_ "time/tzdata"

	"github.com/killallgit/podcastr-pages/cmd"
)

// @title           Podcastr Pages
// @version         1.0.0
// @description     Pre-rendered episode pages for the Podcastr player, kept fresh with background revalidation
// @termsOfService  http://swagger.io/terms/
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/podcastr-pages
// @contact.email   support@example.com
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:3000
// @BasePath        /
// @schemes         http https
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer token for on-demand revalidation
func main() {
	cmd.Execute()
}

package main

import "github.com/MelanieChenMC/meliora/cmd"

// @title           Meliora API
// @version         1.0.0
// @description     A session recording and transcription API with chunked audio capture, stitching, and insight generation
// @contact.name    API Support
// @contact.url     https://github.com/MelanieChenMC/meliora
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer token issued by the identity provider
func main() {
	cmd.Execute()
}

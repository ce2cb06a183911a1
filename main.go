package main

import "github.com/daveharmswebdev/property-manager-sub008/cmd"

// @title Property Manager API
// @version 1.0
// @description Multi-tenant property management backend with real-time receipt notifications.
// @host localhost:8080
// @BasePath /
func main() {
	cmd.Execute()
}

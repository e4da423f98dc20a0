package main

import (
	"realtimeChat/cmd/app"
)

func main() {
	app.GetApp().LetsGo()
}

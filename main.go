package main

import (
	"github.com/haguru/wakenbake/config"
	"github.com/haguru/wakenbake/internal/app"
)

func main() {

	// create and initialize the app
	app, err := app.NewApp(config.CONFIG_PATH)
	if err != nil {
		panic(err) // handle error appropriately in production code
	}

	// run the app
	// This will start the server and listen for incoming requests.
	// If there are any errors during the server startup, they will be handled appropriately.
	err = app.Run()
	if err != nil {
		panic(err) // handle error appropriately in production code
	}
}

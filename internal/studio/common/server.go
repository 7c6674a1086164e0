package common

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewApp creates a Fiber app that encodes and decodes JSON with jsoniter.
func NewApp(name string, errorHandler fiber.ErrorHandler) *fiber.App {
	cfg := fiber.Config{
		AppName:               name,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	}
	if errorHandler != nil {
		cfg.ErrorHandler = errorHandler
	}
	return fiber.New(cfg)
}

// StartServer finds an available port, prints the URL, optionally opens a browser, and starts listening
func StartServer(app *fiber.App, port *int, name string, openBrowser bool) error {
	available := FindAvailablePort(*port)
	if available != *port {
		fmt.Printf("Port %d is in use, using port %d instead\n", *port, available)
		*port = available
	}

	url := fmt.Sprintf("http://localhost:%d", *port)
	fmt.Printf("%s starting on %s\n", name, url)

	if openBrowser {
		go func() {
			if err := OpenBrowser(runtime.GOOS, url); err != nil {
				slog.Warn("could not open browser", "url", url, "error", err)
			}
		}()
	}

	return app.Listen(fmt.Sprintf(":%d", *port))
}

package handlers

import (
	"log"
	"net/http"

	"courtflow_go/config"

	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler renders every error as a JSON object with a single
// "error" field. Internal errors are logged server-side and never leak
// details to the client.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	} else {
		log.Printf("[ERROR] Unhandled error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if writeErr := c.JSON(code, map[string]string{"error": message}); writeErr != nil {
		log.Printf("[ERROR] Failed to write error response: %v", writeErr)
	}
}

// getConfig retrieves the application config injected by the config middleware
func getConfig(c echo.Context) *config.Config {
	cfg, ok := c.Get("config").(*config.Config)
	if !ok {
		// Safe fallback for tests that do not inject a config
		return &config.Config{Environment: "development", EmailTestMode: true}
	}
	return cfg
}

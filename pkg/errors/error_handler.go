package errors

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

func HandleError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	if pe, ok := err.(*PipelineError); ok {
		// Orijinal hatayı logla (debug için)
		if pe.Err != nil {
			log.Printf("Pipeline error [%s]: %v", pe.Code, pe.Err)
		}

		// Status kodunu seç
		var status int
		switch pe.Code {
		case "not_found":
			status = fiber.StatusNotFound
		case "invalid_request":
			status = fiber.StatusBadRequest
		case "already_running":
			status = fiber.StatusConflict
		default:
			status = fiber.StatusInternalServerError
		}

		// Client’a sadece Code + Message gönder
		return c.Status(status).JSON(fiber.Map{
			"error":   pe.Code,
			"message": pe.Message,
		})
	}

	// Yakalanmayan hatalar için fallback
	log.Printf("Unexpected error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_error",
		"message": "Sunucu hatası",
	})
}

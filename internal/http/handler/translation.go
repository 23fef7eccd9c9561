package handler

import (
	"github.com/gofiber/fiber/v2"

	"translateapi/internal/service"
)

type translateRequest struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
}

// UploadFile accepts a multipart form with a "file" part plus userId and toLanguage fields.
func UploadFile(svc service.TranslationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", service.MsgMissingFields)
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "Error uploading file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		job, err := svc.Upload(c.UserContext(), service.UploadInput{
			Reader:       f,
			OriginalName: fh.Filename,
			ContentType:  ct,
			Size:         fh.Size,
			ToLanguage:   c.FormValue("toLanguage"),
			UserID:       c.FormValue("userId"),
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "File uploaded successfully", "data": job})
	}
}

// SavedData lists a user's jobs, most recently updated first.
func SavedData(svc service.TranslationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		jobs, err := svc.ListByUser(c.UserContext(), c.Query("userId"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(jobs)
	}
}

// Translate runs the pipeline for the job named in the body.
func Translate(svc service.TranslationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req translateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		job, err := svc.Translate(c.UserContext(), req.ID, req.UserID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Translation succeed.", "data": job})
	}
}

// DownloadOutput streams a regenerated file as an attachment.
func DownloadOutput(svc service.TranslationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("fileName")
		rc, info, err := svc.OpenOutput(c.UserContext(), name)
		if err != nil {
			return serviceError(c, err)
		}

		c.Attachment(name)
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		size := -1
		if info.Size > 0 {
			size = int(info.Size)
		}
		// The response writer closes rc once the body is sent.
		return c.SendStream(rc, size)
	}
}

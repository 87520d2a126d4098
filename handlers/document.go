package handlers

import (
	"fmt"
	"log"
	"net/http"

	"courtflow_go/db"
	"courtflow_go/middleware"
	"courtflow_go/models"
	"courtflow_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// MaxDocumentSize is the upload limit for case documents (10 MB)
const MaxDocumentSize = 10 << 20

// UploadDocument attaches a file to a case via the configured storage provider
func UploadDocument(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var kase models.Case
	err := db.DB.First(&kase, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Case not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch case")
	}

	if !services.CanPerformCaseAction(user, &kase, services.CaseActionUpload) {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot upload documents to this case")
	}
	if kase.IsClosed() {
		closedErr := &services.CaseClosedError{CaseNumber: kase.CaseNumber}
		return echo.NewHTTPError(http.StatusBadRequest, closedErr.Error())
	}

	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file provided")
	}
	if file.Size > MaxDocumentSize {
		return echo.NewHTTPError(http.StatusBadRequest, "File exceeds the 10 MB upload limit")
	}

	key := services.GenerateCaseDocumentKey(kase.ID, file.Filename)
	result, err := services.Storage.Upload(c.Request().Context(), file, key)
	if err != nil {
		log.Printf("[ERROR] Document upload failed for case %s: %v", kase.CaseNumber, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store document")
	}

	document := models.CaseDocument{
		CaseID:           kase.ID,
		UploadedByID:     user.ID,
		FileName:         result.FileName,
		FileOriginalName: result.FileOriginalName,
		FilePath:         result.Key,
		FileSize:         result.FileSize,
		MimeType:         result.MimeType,
	}
	if err := db.DB.Create(&document).Error; err != nil {
		// Best effort: do not leave the stored blob orphaned
		if delErr := services.Storage.Delete(c.Request().Context(), result.Key); delErr != nil {
			log.Printf("[WARNING] Failed to remove orphaned document %s: %v", result.Key, delErr)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save document record")
	}

	return c.JSON(http.StatusCreated, &document)
}

// GetCaseDocuments lists the documents attached to a case
func GetCaseDocuments(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var kase models.Case
	err := db.DB.First(&kase, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Case not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch case")
	}

	if !services.CanPerformCaseAction(user, &kase, services.CaseActionView) {
		return echo.NewHTTPError(http.StatusForbidden, "You do not have access to this case")
	}

	var documents []models.CaseDocument
	err = db.DB.Preload("UploadedBy").
		Where("case_id = ?", kase.ID).
		Order("created_at DESC").
		Find(&documents).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch documents")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"documents": documents})
}

// DownloadDocument streams a document to callers with access to its case
func DownloadDocument(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var document models.CaseDocument
	err := db.DB.Preload("Case").First(&document, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Document not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch document")
	}

	if !services.CanPerformCaseAction(user, &document.Case, services.CaseActionView) {
		return echo.NewHTTPError(http.StatusForbidden, "You do not have access to this document")
	}

	reader, contentType, err := services.Storage.Get(c.Request().Context(), document.FilePath)
	if err != nil {
		log.Printf("[ERROR] Document download failed for %s: %v", document.FilePath, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve document")
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, document.FileOriginalName))
	return c.Stream(http.StatusOK, contentType, reader)
}

// DeleteDocument removes a document. Admins or the original uploader only.
func DeleteDocument(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var document models.CaseDocument
	err := db.DB.First(&document, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Document not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch document")
	}

	if !user.IsAdmin() && document.UploadedByID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot delete this document")
	}

	if err := services.Storage.Delete(c.Request().Context(), document.FilePath); err != nil {
		log.Printf("[WARNING] Failed to delete stored file %s: %v", document.FilePath, err)
	}
	if err := db.DB.Delete(&document).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete document")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Document deleted"})
}

package handler

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"quicksports/config"
	"quicksports/constants"
	"quicksports/database"
	"quicksports/helper"
	"quicksports/model"
	"quicksports/utils"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
)

// GenerateUploadSignature signs client-side Cloudinary uploads so the API
// secret never leaves the server.
func GenerateUploadSignature(c *fiber.Ctx) error {
	_, isAdmin, isOwner := helper.GetInfoUserFromToken(c)
	if !isAdmin && !isOwner {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_OWNER, errors.New("not permission"))
	}

	type SigParams struct {
		Folder   string `json:"folder"`
		PublicID string `json:"public_id"`
	}

	var params SigParams
	if err := c.BodyParser(&params); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	timestamp := time.Now().Unix()

	// Signable params only; raw values, sorted keys, no URL encoding
	paramMap := map[string]string{"timestamp": fmt.Sprintf("%d", timestamp)}
	if params.Folder != "" {
		paramMap["folder"] = params.Folder
	}
	if params.PublicID != "" {
		paramMap["public_id"] = params.PublicID
	}

	keys := make([]string, 0, len(paramMap))
	for k := range paramMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var stringToSign strings.Builder
	for i, k := range keys {
		if i > 0 {
			stringToSign.WriteString("&")
		}
		stringToSign.WriteString(k)
		stringToSign.WriteString("=")
		stringToSign.WriteString(paramMap[k])
	}
	stringToSign.WriteString(config.Config("CLOUDINARY_API_SECRET"))

	h := sha1.New()
	h.Write([]byte(stringToSign.String()))
	signature := hex.EncodeToString(h.Sum(nil))

	return c.JSON(fiber.Map{
		"signature": signature,
		"timestamp": timestamp,
		"apiKey":    config.Config("CLOUDINARY_API_KEY"),
		"cloudName": config.Config("CLOUDINARY_CLOUD_NAME"),
	})
}

// UploadVenuePhotos accepts multipart photos for a venue and stores them on
// Cloudinary. First photo of a venue becomes the cover.
func UploadVenuePhotos(c *fiber.Ctx) error {
	claim, isAdmin, _ := helper.GetInfoUserFromToken(c)
	venueId := c.Locals("inputId").(int)

	db := database.DB

	var venue model.Venue
	if err := db.First(&venue, venueId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.VENUE_NOT_FOUND, err)
	}
	if !isAdmin && venue.OwnerId != claim.UserId {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_OWNER, errors.New("not your venue"))
	}

	cld := helper.Cloudinary()
	if cld == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Photo storage is not configured", errors.New("cloudinary not configured"))
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}
	files := form.File["photos"]
	if len(files) == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "No photos in request", errors.New("empty upload"))
	}

	var existingPhotos int64
	db.Model(&model.VenuePhoto{}).Where("venue_id = ?", venue.ID).Count(&existingPhotos)

	var uploaded []model.VenuePhoto
	var failed []fiber.Map

	for idx, file := range files {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
			failed = append(failed, fiber.Map{"filename": file.Filename, "error": "only JPG, PNG and WEBP are supported"})
			continue
		}
		if file.Size > 5*1024*1024 {
			failed = append(failed, fiber.Map{"filename": file.Filename, "error": "file exceeds 5MB"})
			continue
		}

		f, err := file.Open()
		if err != nil {
			failed = append(failed, fiber.Map{"filename": file.Filename, "error": "cannot open file"})
			continue
		}

		publicID := fmt.Sprintf("venue_%d_photo_%d_%d", venue.ID, time.Now().UnixNano(), idx)
		result, err := cld.Upload.Upload(c.Context(), f, uploader.UploadParams{
			Folder:       "venues/photos",
			PublicID:     publicID,
			ResourceType: "image",
		})
		f.Close()
		if err != nil {
			failed = append(failed, fiber.Map{"filename": file.Filename, "error": "upload failed: " + err.Error()})
			continue
		}

		photo := model.VenuePhoto{
			VenueId:  venue.ID,
			Url:      &result.SecureURL,
			PublicId: result.PublicID,
			IsCover:  existingPhotos == 0 && len(uploaded) == 0,
		}
		if err := db.Create(&photo).Error; err != nil {
			cld.Upload.Destroy(context.Background(), uploader.DestroyParams{PublicID: result.PublicID})
			failed = append(failed, fiber.Map{"filename": file.Filename, "error": "database save failed"})
			continue
		}
		uploaded = append(uploaded, photo)
	}

	response := fiber.Map{
		"uploaded": uploaded,
		"failed":   failed,
	}
	if len(uploaded) == 0 && len(failed) > 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "All uploads failed", errors.New("upload failed"))
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, response)
}

// DeleteVenuePhoto removes one photo from Cloudinary and the database
func DeleteVenuePhoto(c *fiber.Ctx) error {
	claim, isAdmin, _ := helper.GetInfoUserFromToken(c)
	photoId := c.Locals("inputId").(int)

	db := database.DB

	var photo model.VenuePhoto
	if err := db.First(&photo, photoId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Photo not found", err)
	}

	var venue model.Venue
	if err := db.Select("id", "owner_id").First(&venue, photo.VenueId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.VENUE_NOT_FOUND, err)
	}
	if !isAdmin && venue.OwnerId != claim.UserId {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_OWNER, errors.New("not your venue"))
	}

	if cld := helper.Cloudinary(); cld != nil && photo.PublicId != "" {
		cld.Upload.Destroy(context.Background(), uploader.DestroyParams{PublicID: photo.PublicId})
	}
	if err := db.Delete(&photo).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Delete photo failed", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": photo.ID})
}

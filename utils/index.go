package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	var errMsg interface{}
	if err != nil {
		errMsg = err.Error()
	} else {
		errMsg = nil
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   errMsg,
	})
}

func ErrorResponseHaveKey(c *fiber.Ctx, status int, message string, err error, keyError string) error {
	var errMsg string
	if err != nil {
		errMsg = err.Error()
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   "error",
		"message":  message,
		"errors":   errMsg,
		"keyError": keyError,
	})
}

func SuccessResponse(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

// SuccessResponseWithWarnings carries non-fatal side-effect failures back to
// the caller without failing the primary operation.
func SuccessResponseWithWarnings(c *fiber.Ctx, status int, data any, warnings []string) error {
	if len(warnings) == 0 {
		return SuccessResponse(c, status, data)
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   "success",
		"data":     data,
		"warnings": warnings,
	})
}

func ApplyPagination(query *gorm.DB, limit, page *int) *gorm.DB {
	if limit != nil && *limit > 0 && page != nil && *page >= 1 {
		query = query.Limit(*limit)
		offset := *limit * (*page - 1)
		query = query.Offset(offset)
	}
	return query
}

// IsValidYMD checks a strict 2006-01-02 date string
func IsValidYMD(dateStr string) bool {
	if len(dateStr) != 10 || strings.Count(dateStr, "-") != 2 {
		return false
	}
	_, err := time.Parse("2006-01-02", dateStr)
	return err == nil
}

func CalculateGrowth(today, yesterday float64) float64 {
	if yesterday == 0 {
		if today == 0 {
			return 0
		}
		return 100 // from 0 up
	}
	return ((today - yesterday) / yesterday) * 100
}

func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func Ptr[T any](v T) *T {
	return &v
}

func ParseUintParam(value string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

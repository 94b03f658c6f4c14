package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode"

	"coursehub_backend/db"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// fail logs err and aborts with a JSON error body.
func fail(c *gin.Context, log *slog.Logger, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
		attrs := []any{slog.String("path", c.FullPath()), slog.Int("status", status), slog.Any("error", err)}
		if status >= http.StatusInternalServerError {
			log.Error(message, attrs...)
		} else {
			log.Debug(message, attrs...)
		}
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// failStore maps store errors: ErrNotFound to 404, ErrConflict to 409, the rest to 500.
func failStore(c *gin.Context, log *slog.Logger, err error, notFound, conflict, fallback string) {
	switch {
	case errors.Is(err, db.ErrNotFound) && notFound != "":
		fail(c, log, http.StatusNotFound, notFound, err)
	case errors.Is(err, db.ErrConflict) && conflict != "":
		fail(c, log, http.StatusConflict, conflict, err)
	default:
		fail(c, log, http.StatusInternalServerError, fallback, err)
	}
}

// failValidation reports per-field problems.
func failValidation(c *gin.Context, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":  "Validation failed",
		"fields": fields,
	})
}

// failBinding turns a bind error into a validation response.
func failBinding(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[snakeCase(fe.Field())] = fieldMessage(fe)
	}
	failValidation(c, fields)
}

func fieldMessage(fe validator.FieldError) string {
	name := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "url":
		return name + " must be a valid URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	}
	return name + " is invalid"
}

// snakeCase maps a Go field name to its JSON key: ThumbnailURL -> thumbnail_url.
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func humanize(field string) string {
	words := strings.Split(snakeCase(field), "_")
	for i, w := range words {
		if w == "url" || w == "id" {
			words[i] = strings.ToUpper(w)
		}
	}
	s := strings.Join(words, " ")
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

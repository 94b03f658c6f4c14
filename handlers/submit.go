package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// fromForm reports whether the request was posted by an HTML form.
func fromForm(c *gin.Context) bool {
	switch c.ContentType() {
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		return true
	}
	return false
}

// created finishes a successful mutation. Form posts are redirected to
// destination; API clients receive the record and the destination.
func created(c *gin.Context, destination, key string, record any) {
	if fromForm(c) {
		c.Redirect(http.StatusSeeOther, destination)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		key:        record,
		"redirect": destination,
	})
}

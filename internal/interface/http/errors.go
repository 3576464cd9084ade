package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/festronix-auth/pkg/apperror"
	"github.com/oksasatya/festronix-auth/pkg/helpers"
	"github.com/oksasatya/festronix-auth/pkg/response"
	"github.com/oksasatya/festronix-auth/pkg/validation"
)

// writeError maps a service error onto the envelope. Causes are logged, never returned.
func writeError(c *gin.Context, logger logrus.FieldLogger, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		})
	}
	response.Error[any](c, status, apperror.Message(err), nil)
}

func bindError(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, validation.Summary(err), validation.ToDetails(err))
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

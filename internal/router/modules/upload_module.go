package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/festronix-auth/internal/interface/http"
)

type UploadModule struct {
	Handler *handlers.UploadHandler
}

func NewUploadModule(h *handlers.UploadHandler) *UploadModule {
	return &UploadModule{Handler: h}
}

func (m *UploadModule) Register(rg *gin.RouterGroup) {
	rg.POST("/upload", m.Handler.UploadImage)
	rg.POST("/upload/file", m.Handler.UploadFile)
}

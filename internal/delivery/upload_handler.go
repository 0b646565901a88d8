package delivery

import (
	"net/http"

	"storefront_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type UploadHandler struct {
	uploader usecase.ImageUploader
	log      *logrus.Logger
}

func NewUploadHandler(uploader usecase.ImageUploader, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{uploader: uploader, log: logger}
}

func (h *UploadHandler) RegisterAdminRoutes(admin gin.IRouter) {
	admin.POST("/uploads", h.UploadImage)
}

type uploadResponse struct {
	URL string `json:"url"`
}

// UploadImage takes a multipart "file" and an optional "folder" field.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Missing file field: "+err.Error())
		return
	}
	f, err := header.Open()
	if err != nil {
		h.log.Errorf("Failed to open uploaded file %s: %v", header.Filename, err)
		ErrorResponse(c, http.StatusBadRequest, "Could not read uploaded file")
		return
	}
	defer f.Close()

	url, err := h.uploader.Upload(c.Request.Context(), usecase.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	}, c.PostForm("folder"))
	if err != nil {
		h.log.Warnf("Upload of %s failed: %v", header.Filename, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to upload image: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusCreated, "Image uploaded successfully", uploadResponse{URL: url})
}

package handlers

import (
	"io"
	"net/http"
	"strings"

	"jobportal/internal/logger"
	"jobportal/internal/middleware"
	"jobportal/internal/services"
	"jobportal/internal/services/dto"
	"jobportal/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// profileImageField - имя поля файла в multipart-форме редактирования
const profileImageField = "profile_image"

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
	guards         *middleware.RouteGuards
	maxUpload      int64
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService, guards *middleware.RouteGuards, maxUpload int64) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
		guards:         guards,
		maxUpload:      maxUpload,
	}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	profile := rg.Group("/profile", h.guards.Auth.Required())
	{
		profile.GET("", h.GetProfile)
		profile.GET("/edit", h.GetProfile)
		profile.POST("/edit", h.guards.UserThrottle, h.UpdateProfile)
	}

	api := rg.Group("/api/profile", h.guards.Auth.Required())
	{
		api.GET("", h.APIGetProfile)
		api.PUT("", h.guards.UserThrottle, h.APIUpdateProfile)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), h.GetDB(c), principal.UserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile принимает JSON, form-urlencoded или multipart с изображением
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	input, ok := bindForm[dto.ProfileInput, dto.ProfileForm](h.BaseHandler, c)
	if !ok {
		return
	}

	image, err := h.readImage(c)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), h.GetDB(c), principal.UserID, &input, image)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Profile updated successfully!",
		"redirect": "/profile",
		"profile":  profile,
	})
}

func (h *ProfileHandler) APIGetProfile(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	profile, err := h.profileService.APIGetProfile(c.Request.Context(), h.GetDB(c), principal.UserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) APIUpdateProfile(c *gin.Context) {
	principal, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	input, ok := bindForm[dto.ProfileInput, dto.ProfileForm](h.BaseHandler, c)
	if !ok {
		return
	}

	profile, err := h.profileService.APIUpdateProfile(c.Request.Context(), h.GetDB(c), principal.UserID, &input)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// readImage читает файл изображения из multipart-формы; nil, если файла нет
func (h *ProfileHandler) readImage(c *gin.Context) (*dto.ImageUpload, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, nil
	}
	fileHeader, err := c.FormFile(profileImageField)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, apperrors.NewBadRequestError("Invalid profile image upload")
	}
	if h.maxUpload > 0 && fileHeader.Size > h.maxUpload {
		return nil, apperrors.ErrFileTooLarge
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "failed to read uploaded image", err)
		return nil, apperrors.NewBadRequestError("Invalid profile image upload")
	}
	if h.maxUpload > 0 && int64(len(data)) > h.maxUpload {
		return nil, apperrors.ErrFileTooLarge
	}
	return &dto.ImageUpload{Filename: fileHeader.Filename, Data: data}, nil
}

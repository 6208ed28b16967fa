package devapi

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ownerdesk/internal/domain"
	"ownerdesk/internal/gateway"
	"ownerdesk/internal/middleware"
	"ownerdesk/internal/pkg/jwt"
	"ownerdesk/internal/pkg/validator"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token      string `json:"token"`
	BusinessID int64  `json:"business_id"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		s.badRequest(c, "Email and password are required")
		return
	}

	ctx := c.Request.Context()
	merchant, err := s.repo.MerchantByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = ErrInvalidLogin
		}
		s.fail(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(merchant.PasswordHash), []byte(req.Password)) != nil {
		s.log.Info("login rejected", zap.Int64("merchant_id", merchant.ID))
		s.fail(c, ErrInvalidLogin)
		return
	}
	business, err := s.repo.BusinessByOwner(ctx, merchant.ID)
	if err != nil {
		s.fail(c, err)
		return
	}

	token, err := s.jwt.GenerateToken(merchant.ID, business.ID, jwt.RoleOwner)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: token, BusinessID: business.ID})
}

func (s *Server) myBusiness(c *gin.Context) {
	m, err := s.repo.BusinessByOwner(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m.toDomain())
}

func (s *Server) updateBusiness(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok || !s.ownBusiness(c, id) {
		return
	}
	var body gateway.BusinessUpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, "Invalid request body")
		return
	}
	if strings.TrimSpace(body.DisplayName) == "" {
		s.fail(c, domain.NewValidationError("display_name", "is required"))
		return
	}

	updates := map[string]any{
		"display_name": body.DisplayName,
		"phone_number": body.PhoneNumber,
	}
	if body.LogoID != nil {
		updates["logo_id"] = *body.LogoID
	}
	if body.BannerID != nil {
		updates["banner_id"] = *body.BannerID
	}
	if err := s.repo.UpdateBusiness(c.Request.Context(), id, updates); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) updateMerchant(c *gin.Context) {
	var body gateway.MerchantUpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, "Invalid request body")
		return
	}

	updates := map[string]any{}
	set := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	set("first_name", body.FirstName)
	set("last_name", body.LastName)
	set("phone_number", body.PhoneNumber)
	set("avatar_id", body.AvatarID)

	if err := s.repo.UpdateMerchant(c.Request.Context(), middleware.UserID(c), updates); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) uploadAttachment(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	fh, err := c.FormFile("attachment")
	if err != nil {
		s.badRequest(c, "attachment file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		s.fail(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		s.fail(c, err)
		return
	}

	m := attachmentModel{
		ID:          uuid.NewString(),
		OwnerID:     middleware.UserID(c),
		Filename:    filepath.Base(fh.Filename),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}
	out, err := s.repo.SaveAttachment(c.Request.Context(), &m)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (s *Server) file(c *gin.Context) {
	m, err := s.repo.Attachment(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+m.Filename+`"`)
	c.Data(http.StatusOK, m.ContentType, m.Data)
}

package handler

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-auction-backend/internal/core/auth"
	"go-auction-backend/internal/domain"
	"go-auction-backend/internal/service"
	"go-auction-backend/internal/transport/http/middleware"
	"go-auction-backend/internal/transport/http/response"
)

// AuthService is the slice of the service layer the handlers need.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput, image *service.ImageUpload) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)
}

// openUpload is a seam for tests; a received file can still fail to open
// when its spooled temp file vanishes mid-request.
var openUpload = func(fh *multipart.FileHeader) (multipart.File, error) { return fh.Open() }

type UserHandler struct {
	svc    AuthService
	issuer *auth.TokenIssuer
}

func NewUserHandler(svc AuthService, issuer *auth.TokenIssuer) *UserHandler {
	return &UserHandler{svc: svc, issuer: issuer}
}

// Register handles multipart registration. The profile image arrives in the
// "profileImage" form field; all validation lives in the service.
func (h *UserHandler) Register(c *gin.Context) {
	in := service.RegisterInput{
		UserName:               c.PostForm("userName"),
		Email:                  c.PostForm("email"),
		Password:               c.PostForm("password"),
		Phone:                  c.PostForm("phone"),
		Address:                c.PostForm("address"),
		Role:                   c.PostForm("role"),
		BankAccountNumber:      c.PostForm("bankAccountNumber"),
		BankAccountName:        c.PostForm("bankAccountName"),
		BankName:               c.PostForm("bankName"),
		EasypaisaAccountNumber: c.PostForm("easypaisaAccountNumber"),
		PaypalEmail:            c.PostForm("paypalEmail"),
	}

	var image *service.ImageUpload
	if fh, err := c.FormFile("profileImage"); err == nil && fh != nil {
		f, err := openUpload(fh)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "Could not read the uploaded profile image.")
			return
		}
		defer f.Close()
		image = &service.ImageUpload{
			Body:        f,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
		}
	}

	user, token, err := h.svc.Register(c.Request.Context(), in, image)
	if err != nil {
		response.Error(c, err)
		return
	}

	http.SetCookie(c.Writer, h.issuer.SessionCookie(token))
	response.OK(c, http.StatusCreated, "User registered successfully.", gin.H{
		"user":  user,
		"token": token,
	})
}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var in loginIn
	// field-presence validation is the service's job, so a bad body just
	// falls through with empty fields
	_ = c.ShouldBindJSON(&in)

	user, token, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	http.SetCookie(c.Writer, h.issuer.SessionCookie(token))
	response.OK(c, http.StatusOK, "Login successful.", gin.H{
		"user":  user,
		"token": token,
	})
}

// Logout clears the session cookie. It only runs behind AuthJWT, so reaching
// it means the caller was authenticated; it always succeeds.
func (h *UserHandler) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, h.issuer.ExpiredCookie())
	response.OK(c, http.StatusOK, "Logout successful.", nil)
}

// Profile echoes the identity AuthJWT already resolved; no extra lookup.
func (h *UserHandler) Profile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}
	response.OK(c, http.StatusOK, "", gin.H{"user": user})
}

func (h *UserHandler) Leaderboard(c *gin.Context) {
	entries, err := h.svc.Leaderboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	response.OK(c, http.StatusOK, "", gin.H{"leaderboard": entries})
}

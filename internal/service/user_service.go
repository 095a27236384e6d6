// Package service holds the transport-agnostic auth flow: registration,
// login, profile and leaderboard. Handlers only translate its inputs and
// errors; nothing here knows about gin.
package service

import (
	"context"
	"errors"
	"io"
	"time"

	"go-auction-backend/internal/apperr"
	"go-auction-backend/internal/core/auth"
	"go-auction-backend/internal/core/cache"
	"go-auction-backend/internal/domain"
	"go-auction-backend/internal/imagehost"
	"go-auction-backend/pkg/utils"
)

// ImageFolder is the fixed object-store namespace for profile images.
const ImageFolder = "auction_platform_users"

const leaderboardCacheKey = "leaderboard"

// allowedImageTypes is the upload allow-list, keyed by declared MIME type.
var allowedImageTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
}

// RegisterInput carries the registration form fields. Payment fields are
// only consulted when Role is Auctioneer.
type RegisterInput struct {
	UserName string
	Email    string
	Password string
	Phone    string
	Address  string
	Role     string

	BankAccountNumber      string
	BankAccountName        string
	BankName               string
	EasypaisaAccountNumber string
	PaypalEmail            string
}

// ImageUpload is the received profile image; nil means none was sent.
type ImageUpload struct {
	Body        io.Reader
	Size        int64
	ContentType string
}

type UserService struct {
	repo           domain.UserRepository
	uploader       imagehost.Uploader
	issuer         *auth.TokenIssuer
	cache          *cache.Cache
	leaderboardTTL time.Duration
}

func NewUserService(repo domain.UserRepository, uploader imagehost.Uploader, issuer *auth.TokenIssuer) *UserService {
	return &UserService{repo: repo, uploader: uploader, issuer: issuer}
}

// WithLeaderboardCache serves the leaderboard through a redis read-through
// cache. Without it every request hits the store.
func (s *UserService) WithLeaderboardCache(c *cache.Cache, ttl time.Duration) *UserService {
	s.cache = c
	s.leaderboardTTL = ttl
	return s
}

// Register runs the full flow in strict order: validate → duplicate
// pre-check → upload → hash → persist → issue token. Nothing is uploaded or
// persisted for invalid or duplicate submissions; the unique email index
// backstops the window between pre-check and insert.
func (s *UserService) Register(ctx context.Context, in RegisterInput, image *ImageUpload) (*domain.User, string, error) {
	if image == nil {
		return nil, "", apperr.Validation("Profile image is required.")
	}
	if _, ok := allowedImageTypes[image.ContentType]; !ok {
		return nil, "", apperr.Validation("Invalid file format. Use PNG, JPEG, or WebP.")
	}
	if in.UserName == "" || in.Email == "" || in.Phone == "" || in.Password == "" || in.Address == "" || in.Role == "" {
		return nil, "", apperr.Validation("Please fill in all required fields.")
	}
	if in.Role != domain.RoleBidder && in.Role != domain.RoleAuctioneer {
		return nil, "", apperr.Validation("Please provide a valid role.")
	}
	if in.Role == domain.RoleAuctioneer {
		if in.BankAccountName == "" || in.BankAccountNumber == "" || in.BankName == "" {
			return nil, "", apperr.Validation("Please provide full bank details.")
		}
		if in.EasypaisaAccountNumber == "" {
			return nil, "", apperr.Validation("Easypaisa account number is required.")
		}
		if in.PaypalEmail == "" {
			return nil, "", apperr.Validation("Paypal email is required.")
		}
	}

	existing, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, "", apperr.Internal("Failed to check registration.", err)
	}
	if existing != nil {
		return nil, "", apperr.Conflict("User already registered.")
	}

	asset, err := s.uploader.Upload(ctx, image.Body, image.Size, image.ContentType, ImageFolder)
	if err != nil {
		return nil, "", apperr.Upstream("Failed to upload profile image.", err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", apperr.Internal("Failed to process credentials.", err)
	}

	user := &domain.User{
		ID:           utils.NewID(),
		UserName:     in.UserName,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        in.Phone,
		Address:      in.Address,
		Role:         in.Role,
		ProfileImage: domain.ProfileImage{
			PublicID: asset.PublicID,
			URL:      asset.URL,
		},
		PaymentMethods: domain.PaymentMethods{
			BankTransfer: domain.BankTransfer{
				BankAccountNumber: in.BankAccountNumber,
				BankAccountName:   in.BankAccountName,
				BankName:          in.BankName,
			},
			Easypaisa: domain.Easypaisa{EasypaisaAccountNumber: in.EasypaisaAccountNumber},
			Paypal:    domain.Paypal{PaypalEmail: in.PaypalEmail},
		},
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			// lost the race against a concurrent registration
			return nil, "", apperr.Conflict("User already registered.")
		}
		return nil, "", apperr.Internal("Failed to register user.", err)
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, "", apperr.Internal("Failed to issue session token.", err)
	}
	return user, token, nil
}

// Login verifies the credentials and mints a session token. Unknown email
// and wrong password produce byte-identical errors.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperr.Validation("Please enter both email and password.")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", apperr.Internal("Failed to look up credentials.", err)
	}
	if user == nil {
		return nil, "", apperr.InvalidCredentials()
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, "", apperr.InvalidCredentials()
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, "", apperr.Internal("Failed to issue session token.", err)
	}
	return user, token, nil
}

// Leaderboard returns every user with moneySpent > 0, highest spender first.
func (s *UserService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	if s.cache == nil {
		return s.leaderboard(ctx)
	}
	entries, err := cache.GetOrLoadJSON(s.cache, ctx, leaderboardCacheKey, s.leaderboardTTL, s.leaderboard)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *UserService) leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	entries, err := s.repo.Leaderboard(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch leaderboard.", err)
	}
	return entries, nil
}

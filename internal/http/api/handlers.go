package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/radahn42/chronicles/internal/domain/models"
)

// StatusMessage is served at the root as a liveness banner.
const StatusMessage = "Crud is running..."

// TokenIssuer signs identity claims at sign-in.
type TokenIssuer interface {
	IssueToken(ctx context.Context, claim models.IdentityClaim) (string, error)
}

// BlogService lists, fetches and writes blog posts.
type BlogService interface {
	Blogs(ctx context.Context, category string) ([]models.Document, error)
	RecentBlogs(ctx context.Context) ([]models.Document, error)
	FeaturedBlogs(ctx context.Context) ([]models.Document, error)
	Blog(ctx context.Context, id string) (models.Document, error)
	UpdateBlog(ctx context.Context, id string, fields models.Document) (models.UpdateResult, error)
	AddBlog(ctx context.Context, blog models.Document) (models.InsertResult, error)
}

type CommentService interface {
	Comments(ctx context.Context, blogID string) ([]models.Document, error)
	AddComment(ctx context.Context, comment models.Document) (models.InsertResult, error)
}

type WishlistService interface {
	AddToWishlist(ctx context.Context, item models.Document) (models.InsertResult, error)
	Wishlist(ctx context.Context, userEmail string) ([]models.Document, error)
	RemoveFromWishlist(ctx context.Context, id string) (models.DeleteResult, error)
}

type NewsletterService interface {
	Subscribe(ctx context.Context, subscription models.Document) (models.InsertResult, error)
}

// Cookie describes the session cookie carrying the token.
type Cookie struct {
	Name string
	// Insecure drops the Secure attribute for plain-HTTP local runs.
	Insecure bool
}

type Handlers struct {
	log         *slog.Logger
	cookie      Cookie
	auth        TokenIssuer
	blogs       BlogService
	comments    CommentService
	wishlist    WishlistService
	newsletters NewsletterService
}

func New(
	log *slog.Logger,
	cookie Cookie,
	auth TokenIssuer,
	blogs BlogService,
	comments CommentService,
	wishlist WishlistService,
	newsletters NewsletterService,
) *Handlers {
	return &Handlers{
		log:         log,
		cookie:      cookie,
		auth:        auth,
		blogs:       blogs,
		comments:    comments,
		wishlist:    wishlist,
		newsletters: newsletters,
	}
}

func (h *Handlers) status(c *gin.Context) {
	c.String(http.StatusOK, StatusMessage)
}

func (h *Handlers) issueToken(c *gin.Context) (any, error) {
	claim, err := bindDocument(c)
	if err != nil {
		return nil, err
	}

	token, err := h.auth.IssueToken(c.Request.Context(), models.IdentityClaim(claim))
	if err != nil {
		return nil, err
	}

	h.setCookie(c, token, 0)

	return gin.H{"success": true}, nil
}

func (h *Handlers) logout(c *gin.Context) (any, error) {
	h.setCookie(c, "", -1)

	return gin.H{"success": true}, nil
}

// setCookie writes the session cookie. maxAge 0 makes it a session cookie,
// a negative maxAge deletes it.
func (h *Handlers) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", !h.cookie.Insecure, true)
}

func (h *Handlers) listBlogs(c *gin.Context) (any, error) {
	return h.blogs.Blogs(c.Request.Context(), c.Query("category"))
}

func (h *Handlers) recentBlogs(c *gin.Context) (any, error) {
	return h.blogs.RecentBlogs(c.Request.Context())
}

func (h *Handlers) featuredBlogs(c *gin.Context) (any, error) {
	return h.blogs.FeaturedBlogs(c.Request.Context())
}

func (h *Handlers) getBlog(c *gin.Context) (any, error) {
	return h.blogs.Blog(c.Request.Context(), c.Param("id"))
}

func (h *Handlers) updateBlog(c *gin.Context) (any, error) {
	fields, err := bindDocument(c)
	if err != nil {
		return nil, err
	}

	return h.blogs.UpdateBlog(c.Request.Context(), c.Param("id"), fields)
}

func (h *Handlers) addBlog(c *gin.Context) (any, error) {
	blog, err := bindDocument(c)
	if err != nil {
		return nil, err
	}

	return h.blogs.AddBlog(c.Request.Context(), blog)
}

func (h *Handlers) subscribe(c *gin.Context) (any, error) {
	subscription, err := bindDocument(c)
	if err != nil {
		return nil, err
	}

	return h.newsletters.Subscribe(c.Request.Context(), subscription)
}

func (h *Handlers) addToWishlist(c *gin.Context) (any, error) {
	item, err := bindDocument(c)
	if err != nil {
		return nil, err
	}

	return h.wishlist.AddToWishlist(c.Request.Context(), item)
}

func (h *Handlers) listWishlist(c *gin.Context) (any, error) {
	return h.wishlist.Wishlist(c.Request.Context(), c.Query("email"))
}

func (h *Handlers) removeFromWishlist(c *gin.Context) (any, error) {
	return h.wishlist.RemoveFromWishlist(c.Request.Context(), c.Param("_id"))
}

func (h *Handlers) listComments(c *gin.Context) (any, error) {
	return h.comments.Comments(c.Request.Context(), c.Param("blogId"))
}

func (h *Handlers) addComment(c *gin.Context) (any, error) {
	comment, err := bindDocument(c)
	if err != nil {
		return nil, err
	}

	return h.comments.AddComment(c.Request.Context(), comment)
}

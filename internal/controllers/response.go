package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// statusForKind maps a DomainError kind to its HTTP status
func statusForKind(kind string) int {
	switch kind {
	case models.ErrValidationFailed, models.ErrBadRequest:
		return http.StatusBadRequest
	case models.ErrConflict:
		return http.StatusConflict
	case models.ErrNotFound:
		return http.StatusNotFound
	case models.ErrUnauthorized:
		return http.StatusUnauthorized
	case models.ErrForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as an APIError. Storage failures are logged and
// their cause is not leaked to the client.
func respondError(ctx *gin.Context, err error) {
	de := models.AsDomainError(err)
	status := statusForKind(de.Kind)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"method": ctx.Request.Method,
			"path":   ctx.FullPath(),
		}).Error("Request failed")
	}
	ctx.AbortWithStatusJSON(status, de.ToAPIError())
}

func respondBadRequest(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, message))
}

// pathID parses a positive numeric path parameter
func pathID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(ctx, fmt.Sprintf("Invalid %s format", name))
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an optional non-negative integer query parameter
func queryInt(ctx *gin.Context, name string) (int, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondBadRequest(ctx, fmt.Sprintf("Query parameter %s must be a non-negative integer", name))
		return 0, false
	}
	return n, true
}

// queryFlag accepts the "1"/"true" spellings used by the frontend
func queryFlag(ctx *gin.Context, name string) bool {
	switch ctx.Query(name) {
	case "1", "true", "True":
		return true
	}
	return false
}

// viewerID returns the authenticated caller as a pointer, nil for anonymous
func viewerID(ctx *gin.Context) *uint {
	id, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return nil
	}
	return &id
}

// pagination reads page and limit from the query string
func pagination(ctx *gin.Context, defaultLimit int) (services.Pagination, bool) {
	page, ok := queryInt(ctx, "page")
	if !ok {
		return services.Pagination{}, false
	}
	limit, ok := queryInt(ctx, "limit")
	if !ok {
		return services.Pagination{}, false
	}
	return services.NewPagination(page, limit, defaultLimit), true
}

// newPage wraps results with absolute next/previous links built from the
// current request URL.
func newPage[T any](ctx *gin.Context, page services.Pagination, count int64, results []T) models.Page[T] {
	out := models.Page[T]{Count: count, Results: results}
	if out.Results == nil {
		out.Results = []T{}
	}
	if int64(page.Page*page.Limit) < count {
		next := pageURL(ctx, page.Page+1)
		out.Next = &next
	}
	if page.Page > 1 {
		prev := pageURL(ctx, page.Page-1)
		out.Previous = &prev
	}
	return out
}

func pageURL(ctx *gin.Context, page int) string {
	scheme := "http"
	if ctx.Request.TLS != nil {
		scheme = "https"
	}
	if proto := ctx.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	query := ctx.Request.URL.Query()
	if page == 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     ctx.Request.Host,
		Path:     ctx.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	return u.String()
}

package ascomserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nexstar-alpaca/bridge/internal/api"
)

const (
	ctxClientID            = "clientID"
	ctxClientTransactionID = "clientTransactionID"
	ctxServerTransactionID = "serverTransactionID"
)

// LoggingMiddleware logs method/path/status/duration for every request,
// at a severity tiered by the resulting HTTP status.
func LoggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("client_ip", c.ClientIP()),
		}

		switch {
		case status >= 500:
			logger.Error("request failed", fields...)
		case status >= 400:
			logger.Warn("request rejected", fields...)
		default:
			logger.Debug("request handled", fields...)
		}
	}
}

// TransactionMiddleware extracts ClientID and ClientTransactionID from
// the request (query string on GET, form body on PUT) and assigns a
// fresh ServerTransactionID from counter, stashing all three in the gin
// context for the route handler and envelope renderer to read back. A
// present-but-unparsable value rejects the request outright with HTTP
// 400; an absent one defaults to 0.
func TransactionMiddleware(counter *api.TransactionCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, ok := parseUint32Field(firstNonEmpty(c.Query("ClientID"), c.PostForm("ClientID")))
		if !ok {
			c.String(http.StatusBadRequest, "Invalid 'ClientID'")
			c.Abort()
			return
		}
		clientTxnID, ok := parseUint32Field(firstNonEmpty(c.Query("ClientTransactionID"), c.PostForm("ClientTransactionID")))
		if !ok {
			c.String(http.StatusBadRequest, "Invalid 'ClientTransactionID'")
			c.Abort()
			return
		}

		c.Set(ctxClientID, clientID)
		c.Set(ctxClientTransactionID, clientTxnID)
		c.Set(ctxServerTransactionID, counter.Next())
		c.Next()
	}
}

// ErrorHandlerMiddleware recovers from a panicking handler and renders
// it as an HTTP 400 diagnostic body instead of crashing the process:
// nothing panics by design here, so a recovered panic is itself a
// spurious runtime fault, which the boundary converts to a value like
// any other failure rather than a 500.
func ErrorHandlerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("recovered from panic", zap.Any("error", r), zap.String("path", c.Request.URL.Path))
				c.JSON(http.StatusBadRequest, gin.H{
					"Value": nil, "ClientID": 0, "ErrorNumber": -1,
					"ErrorMessage": "internal server error", "ClientTransactionID": 0, "ServerTransactionID": 0,
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

func getClientID(c *gin.Context) uint32            { return getCtxUint32(c, ctxClientID) }
func getClientTransactionID(c *gin.Context) uint32 { return getCtxUint32(c, ctxClientTransactionID) }
func getServerTransactionID(c *gin.Context) uint32  { return getCtxUint32(c, ctxServerTransactionID) }

func getCtxUint32(c *gin.Context, key string) uint32 {
	v, ok := c.Get(key)
	if !ok {
		return 0
	}
	n, _ := v.(uint32)
	return n
}

// parseUint32Field parses raw as an unsigned 32-bit value. A missing
// (empty) field is not an error — it defaults to 0 — but a present,
// malformed one is.
func parseUint32Field(raw string) (uint32, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

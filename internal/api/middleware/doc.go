// Package middleware provides the HTTP middleware for the station file manager.
//
// Middleware stack includes:
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Per-IP token bucket rate limiting with idle client eviction
//   - CSRF: token enforcement on unsafe methods, scoped per station
//   - BodyLimit: request body ceiling derived from POST_MAX_SIZE
//   - CaptureForm: keeps the raw urlencoded body so sort order survives decoding
//
// All rejections use the same envelope as the handlers:
//
//	{"error": {"code": 403, "msg": "XSRF Failure"}}
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
//	files.Use(middleware.BodyLimit(postMax), middleware.CSRF(csrf, security.ScopeFiles, log))
package middleware

// Package http exposes the station file manager over gin.
//
// Every route is scoped by the :station parameter. Handlers resolve the station
// first, then pass the file parameter through the station's path guard, so
// domain code only ever sees contained absolute paths.
//
// Routes:
//   - GET  /stations/:station/files           playlists, CSRF token, upload ceiling
//   - GET|POST /stations/:station/files/list  search, sort, and paginate a directory
//   - POST /stations/:station/files/batch     delete, clear, playlist_<id>
//   - POST /stations/:station/files/mkdir     create a subdirectory
//   - POST /stations/:station/files/upload    multipart field file_data
//   - GET  /stations/:station/files/download  attachment stream
//
// Failures use {"error": {"code": <status>, "msg": <text>}} with 404, 403, 412,
// 413, 400 or 500.
package http

// Package http provides the HTTP client used to reach the music catalog API.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - Non-2xx responses surfaced as *StatusError
//   - JSON decoding of API responses
//
// # Basic Usage
//
//	client := http.NewClient(30*time.Second, "")
//
//	// Fetch JSON
//	var detail dto.DetailResponse
//	err := client.GetJSON(ctx, "https://api.imjad.cn/cloudmusic/?type=detail&id=1347203552", &detail)
//
//	// Fetch cover art
//	img, err := client.Get(ctx, detail.Songs[0].Album.PicURL)
package http

package imagekit

import "regexp"

var accountIDPattern = regexp.MustCompile(`^https://ik\.imagekit\.io/([^/]+)/`)

// AccountIDFromURL extracts the URL-endpoint ID from a default ImageKit
// delivery URL such as https://ik.imagekit.io/<id>/path.jpg.
func AccountIDFromURL(u string) (string, bool) {
	m := accountIDPattern.FindStringSubmatch(u)
	if m == nil {
		return "", false
	}
	return m[1], true
}

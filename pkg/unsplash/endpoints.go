package unsplash

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// BaseURL is the public Unsplash API root
	BaseURL = "https://api.unsplash.com"

	// CollectionPhotosEndpoint lists the photos of one collection
	CollectionPhotosEndpoint = "/collections/%s/photos/"
)

// CollectionPhotosURL builds
// {base}/collections/{id}/photos/?client_id={key}&page={n}
func CollectionPhotosURL(base, collectionID, accessKey string, page int) string {
	params := url.Values{}
	params.Set("client_id", accessKey)
	params.Set("page", strconv.Itoa(page))

	path := fmt.Sprintf(CollectionPhotosEndpoint, url.PathEscape(collectionID))
	return strings.TrimRight(base, "/") + path + "?" + params.Encode()
}

// RedactKey replaces the client_id query value so URLs can be logged
func RedactKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Get("client_id") == "" {
		return rawURL
	}
	q.Set("client_id", "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}

// SanitizeCollectionID accepts either a bare id or a collection page URL
// such as https://unsplash.com/collections/1580860/wallpapers
func SanitizeCollectionID(input string) string {
	id := strings.TrimSpace(input)
	if i := strings.Index(id, "/collections/"); i >= 0 {
		id = id[i+len("/collections/"):]
		if j := strings.IndexAny(id, "/?#"); j >= 0 {
			id = id[:j]
		}
	}
	return strings.Trim(id, "/")
}

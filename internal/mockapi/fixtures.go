package mockapi

import (
	"encoding/json"
	"fmt"
)

// PhotoRecord returns a complete photo record as the API would send it.
// Tests mutate the returned map to drop or break individual fields.
func PhotoRecord(id, fullURL string) map[string]interface{} {
	return map[string]interface{}{
		"id":              id,
		"created_at":      "2021-03-04T05:06:07-05:00",
		"updated_at":      "2023-01-02T03:04:05-05:00",
		"promoted_at":     nil,
		"width":           4000,
		"height":          6000,
		"color":           "#c0c0c0",
		"blur_hash":       "LEHV6nWB2yk8pyo0adR*.7kCMdnj",
		"description":     nil,
		"alt_description": "a mountain at dusk",
		"urls": map[string]interface{}{
			"raw":      fullURL + "?raw",
			"full":     fullURL,
			"regular":  fullURL + "?w=1080",
			"small":    fullURL + "?w=400",
			"thumb":    fullURL + "?w=200",
			"small_s3": fullURL + "?s3",
		},
		"links": map[string]interface{}{
			"self":              "https://api.unsplash.com/photos/" + id,
			"html":              "https://unsplash.com/photos/" + id,
			"download":          "https://unsplash.com/photos/" + id + "/download",
			"download_location": "https://api.unsplash.com/photos/" + id + "/download",
		},
		"likes":                    12,
		"liked_by_user":            false,
		"current_user_collections": []interface{}{},
		"sponsorship":              nil,
		"topic_submissions": map[string]interface{}{
			"nature": map[string]interface{}{
				"status":      "approved",
				"approved_on": "2021-03-05T10:00:00-05:00",
			},
			"people": map[string]interface{}{
				"status": "rejected",
			},
		},
		"user": map[string]interface{}{
			"id":                 "user-" + id,
			"updated_at":         "2023-01-02T03:04:05-05:00",
			"username":           "photographer",
			"name":               "Jane Roe",
			"first_name":         "Jane",
			"last_name":          nil,
			"twitter_username":   nil,
			"portfolio_url":      nil,
			"bio":                nil,
			"location":           "Oslo",
			"instagram_username": nil,
			"links": map[string]interface{}{
				"self":      "https://api.unsplash.com/users/photographer",
				"html":      "https://unsplash.com/@photographer",
				"photos":    "https://api.unsplash.com/users/photographer/photos",
				"likes":     "https://api.unsplash.com/users/photographer/likes",
				"portfolio": "https://api.unsplash.com/users/photographer/portfolio",
				"following": "https://api.unsplash.com/users/photographer/following",
				"followers": "https://api.unsplash.com/users/photographer/followers",
			},
			"profile_image": map[string]interface{}{
				"small":  "https://images.unsplash.com/profile-small",
				"medium": "https://images.unsplash.com/profile-medium",
				"large":  "https://images.unsplash.com/profile-large",
			},
			"total_collections": 1,
			"total_likes":       2,
			"total_photos":      3,
			"accepted_tos":      true,
			"for_hire":          false,
			"social": map[string]interface{}{
				"instagram_username": nil,
				"portfolio_url":      nil,
				"twitter_username":   nil,
				"paypal_email":       nil,
			},
		},
	}
}

// PageOf builds a page of n records whose full URLs are prefix/{collection}-{page}-{i}.jpg
func PageOf(prefix, collection string, page, n int) []map[string]interface{} {
	records := make([]map[string]interface{}, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%s-%d-%d", collection, page, i)
		records = append(records, PhotoRecord(id, fmt.Sprintf("%s/%s.jpg", prefix, id)))
	}
	return records
}

// MustJSON encodes v, panicking on failure
func MustJSON(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("mockapi: encode fixture: %v", err))
	}
	return data
}

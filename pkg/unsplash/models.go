package unsplash

import (
	"encoding/json"
	"fmt"
)

// CollectionPage is one page of a collection's photo listing.
// It is empty when the page is past the end of the collection.
type CollectionPage []Photo

// FullURLs returns the full-size URL of every photo, in page order
func (p CollectionPage) FullURLs() []string {
	urls := make([]string, 0, len(p))
	for _, photo := range p {
		urls = append(urls, photo.URLs.Full)
	}
	return urls
}

// Photo is a single photo record from /collections/{id}/photos.
// Only URLs.Full is used for downloading; the rest is decoded so that a
// malformed record is detected, and is otherwise inert.
type Photo struct {
	ID                     string            `json:"id"`
	CreatedAt              string            `json:"created_at"`
	UpdatedAt              string            `json:"updated_at"`
	PromotedAt             *string           `json:"promoted_at"`
	Width                  int64             `json:"width"`
	Height                 int64             `json:"height"`
	Color                  string            `json:"color"`
	BlurHash               string            `json:"blur_hash"`
	Description            *string           `json:"description"`
	AltDescription         *string           `json:"alt_description"`
	URLs                   URLs              `json:"urls"`
	Links                  PhotoLinks        `json:"links"`
	Likes                  int64             `json:"likes"`
	LikedByUser            bool              `json:"liked_by_user"`
	CurrentUserCollections []json.RawMessage `json:"current_user_collections"`
	Sponsorship            json.RawMessage   `json:"sponsorship,omitempty"`
	TopicSubmissions       TopicSubmissions  `json:"topic_submissions"`
	User                   User              `json:"user"`
}

var photoRequired = []string{
	"id", "created_at", "updated_at", "width", "height", "color", "blur_hash",
	"urls", "links", "likes", "liked_by_user", "current_user_collections",
	"topic_submissions", "user",
}

func (p *Photo) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, "photo", photoRequired); err != nil {
		return err
	}
	type plain Photo
	return json.Unmarshal(data, (*plain)(p))
}

// URLs holds the size variants of a photo
type URLs struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"`
	Small   string `json:"small"`
	Thumb   string `json:"thumb"`
	SmallS3 string `json:"small_s3"`
}

func (u *URLs) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, "urls", []string{"raw", "full", "regular", "small", "thumb", "small_s3"}); err != nil {
		return err
	}
	type plain URLs
	return json.Unmarshal(data, (*plain)(u))
}

type PhotoLinks struct {
	Self             string `json:"self"`
	HTML             string `json:"html"`
	Download         string `json:"download"`
	DownloadLocation string `json:"download_location"`
}

func (l *PhotoLinks) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, "photo links", []string{"self", "html", "download", "download_location"}); err != nil {
		return err
	}
	type plain PhotoLinks
	return json.Unmarshal(data, (*plain)(l))
}

// TopicSubmissions records the photo's submission state per topic.
// Every topic is optional; topics not listed here are ignored.
type TopicSubmissions struct {
	Nature               *TopicSubmission `json:"nature,omitempty"`
	Wallpapers           *TopicSubmission `json:"wallpapers,omitempty"`
	ArtsCulture          *TopicSubmission `json:"arts-culture,omitempty"`
	ColorTheory          *TopicSubmission `json:"color-theory,omitempty"`
	TexturesPatterns     *TopicSubmission `json:"textures-patterns,omitempty"`
	Animals              *TopicSubmission `json:"animals,omitempty"`
	People               *TopicSubmission `json:"people,omitempty"`
	StreetPhotography    *TopicSubmission `json:"street-photography,omitempty"`
	ArchitectureInterior *TopicSubmission `json:"architecture-interior,omitempty"`
	Architecture         *TopicSubmission `json:"architecture,omitempty"`
}

type TopicSubmission struct {
	Status     Status  `json:"status"`
	ApprovedOn *string `json:"approved_on,omitempty"`
}

func (s *TopicSubmission) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, "topic submission", []string{"status"}); err != nil {
		return err
	}
	type plain TopicSubmission
	return json.Unmarshal(data, (*plain)(s))
}

// Status is the outcome of a topic submission
type Status string

const (
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// UnmarshalJSON accepts only the two known statuses
func (s *Status) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("topic submission status: %w", err)
	}
	switch Status(v) {
	case StatusApproved, StatusRejected:
		*s = Status(v)
		return nil
	default:
		return fmt.Errorf("unknown topic submission status %q", v)
	}
}

// User is the photographer who owns the photo
type User struct {
	ID                string       `json:"id"`
	UpdatedAt         string       `json:"updated_at"`
	Username          string       `json:"username"`
	Name              string       `json:"name"`
	FirstName         string       `json:"first_name"`
	LastName          *string      `json:"last_name"`
	TwitterUsername   *string      `json:"twitter_username"`
	PortfolioURL      *string      `json:"portfolio_url"`
	Bio               *string      `json:"bio"`
	Location          *string      `json:"location"`
	Links             UserLinks    `json:"links"`
	ProfileImage      ProfileImage `json:"profile_image"`
	InstagramUsername *string      `json:"instagram_username"`
	TotalCollections  int64        `json:"total_collections"`
	TotalLikes        int64        `json:"total_likes"`
	TotalPhotos       int64        `json:"total_photos"`
	AcceptedTOS       bool         `json:"accepted_tos"`
	ForHire           bool         `json:"for_hire"`
	Social            Social       `json:"social"`
}

var userRequired = []string{
	"id", "updated_at", "username", "name", "first_name", "links", "profile_image",
	"total_collections", "total_likes", "total_photos", "accepted_tos", "for_hire", "social",
}

func (u *User) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, "user", userRequired); err != nil {
		return err
	}
	type plain User
	return json.Unmarshal(data, (*plain)(u))
}

type UserLinks struct {
	Self      string `json:"self"`
	HTML      string `json:"html"`
	Photos    string `json:"photos"`
	Likes     string `json:"likes"`
	Portfolio string `json:"portfolio"`
	Following string `json:"following"`
	Followers string `json:"followers"`
}

func (l *UserLinks) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, "user links", []string{"self", "html", "photos", "likes", "portfolio", "following", "followers"}); err != nil {
		return err
	}
	type plain UserLinks
	return json.Unmarshal(data, (*plain)(l))
}

type ProfileImage struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

func (p *ProfileImage) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, "profile image", []string{"small", "medium", "large"}); err != nil {
		return err
	}
	type plain ProfileImage
	return json.Unmarshal(data, (*plain)(p))
}

// Social holds the user's linked profiles; every field may be null
type Social struct {
	InstagramUsername *string         `json:"instagram_username"`
	PortfolioURL      *string         `json:"portfolio_url"`
	TwitterUsername   *string         `json:"twitter_username"`
	PaypalEmail       json.RawMessage `json:"paypal_email,omitempty"`
}

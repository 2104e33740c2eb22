package dto

import (
	"math"
	"stayfinder/internal/domains/listing/model"
	"stayfinder/shared"
	"stayfinder/shared/constant"
	gDto "stayfinder/shared/dto"
	gModel "stayfinder/shared/model"
	"stayfinder/shared/timezone"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ListingFields carries every constraint a stored listing must satisfy; create and the merged
// result of an update are both checked against it.
type ListingFields struct {
	Title            string   `json:"title"            validate:"notblank,max=100"`
	Description      string   `json:"description"      validate:"notblank,max=2000"`
	Location         string   `json:"location"         validate:"notblank,max=200"`
	PricePerNight    float64  `json:"pricePerNight"    validate:"gte=0"`
	Bedrooms         int      `json:"bedrooms"         validate:"gte=1"`
	Bathrooms        int      `json:"bathrooms"        validate:"gte=1"`
	MaxGuests        int      `json:"maxGuests"        validate:"gte=1"`
	Amenities        []string `json:"amenities"        validate:"omitempty,dive,notblank,max=100"`
	Images           []string `json:"images"           validate:"omitempty,dive,url"`
	HostName         string   `json:"hostName"         validate:"omitempty,max=100"`
	HostProfileImage string   `json:"hostProfileImage" validate:"omitempty,url"`
}

func (f *ListingFields) FromModel(listing model.Listing) {
	f.Title = listing.Title
	f.Description = listing.Description
	f.Location = listing.Location
	f.PricePerNight = listing.PricePerNight
	f.Bedrooms = listing.Bedrooms
	f.Bathrooms = listing.Bathrooms
	f.MaxGuests = listing.MaxGuests
	f.Amenities = listing.Amenities
	f.Images = listing.Images
	f.HostName = listing.HostName
	f.HostProfileImage = listing.HostProfileImage
}

type CreateListingRequest struct {
	ListingFields
}

func (c *CreateListingRequest) ToModel(hostID string) model.Listing {
	return model.Listing{
		ID:               uuid.NewString(),
		Title:            strings.TrimSpace(c.Title),
		Description:      c.Description,
		Location:         c.Location,
		PricePerNight:    c.PricePerNight,
		Bedrooms:         c.Bedrooms,
		Bathrooms:        c.Bathrooms,
		MaxGuests:        c.MaxGuests,
		Amenities:        nonNil(c.Amenities),
		Images:           nonNil(c.Images),
		HostID:           hostID,
		HostName:         c.HostName,
		HostProfileImage: c.HostProfileImage,
		Metadata:         gModel.NewMetadata(hostID, timezone.Now()),
	}
}

// UpdateListingRequest is a partial update: only non-nil fields are applied.
type UpdateListingRequest struct {
	Title            *string         `db:"title"              json:"title"`
	Description      *string         `db:"description"        json:"description"`
	Location         *string         `db:"location"           json:"location"`
	PricePerNight    *float64        `db:"price_per_night"    json:"pricePerNight"`
	Bedrooms         *int            `db:"bedrooms"           json:"bedrooms"`
	Bathrooms        *int            `db:"bathrooms"          json:"bathrooms"`
	MaxGuests        *int            `db:"max_guests"         json:"maxGuests"`
	Amenities        *pq.StringArray `db:"amenities"          json:"amenities"`
	Images           *pq.StringArray `db:"images"             json:"images"`
	HostName         *string         `db:"host_name"          json:"hostName"`
	HostProfileImage *string         `db:"host_profile_image" json:"hostProfileImage"`
}

func (u *UpdateListingRequest) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Location == nil && u.PricePerNight == nil &&
		u.Bedrooms == nil && u.Bathrooms == nil && u.MaxGuests == nil && u.Amenities == nil &&
		u.Images == nil && u.HostName == nil && u.HostProfileImage == nil
}

// Apply returns a copy of listing with the patch merged in.
func (u *UpdateListingRequest) Apply(listing model.Listing) model.Listing {
	merged := listing

	setIfPresent(&merged.Title, u.Title)
	setIfPresent(&merged.Description, u.Description)
	setIfPresent(&merged.Location, u.Location)
	setIfPresent(&merged.PricePerNight, u.PricePerNight)
	setIfPresent(&merged.Bedrooms, u.Bedrooms)
	setIfPresent(&merged.Bathrooms, u.Bathrooms)
	setIfPresent(&merged.MaxGuests, u.MaxGuests)
	setIfPresent(&merged.Amenities, u.Amenities)
	setIfPresent(&merged.Images, u.Images)
	setIfPresent(&merged.HostName, u.HostName)
	setIfPresent(&merged.HostProfileImage, u.HostProfileImage)

	return merged
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

type UpsertReviewRequest struct {
	Rating int    `json:"rating" validate:"gte=1,lte=5"`
	Review string `json:"review" validate:"notblank,max=1000"`
}

func (r *UpsertReviewRequest) ToModel(listingID, userID string) model.Review {
	now := timezone.Now()

	return model.Review{
		ListingID: listingID,
		UserID:    userID,
		Rating:    r.Rating,
		Text:      strings.TrimSpace(r.Review),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type UploadImageRequest struct {
	Image string `json:"image" validate:"required,mimetypes=image/png image/jpeg image/webp,maxfilesize=5"`
}

type HostResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage"`
}

type ReviewResponse struct {
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Rating    int    `json:"rating"`
	Review    string `json:"review"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func (r *ReviewResponse) FromModel(review model.Review) {
	names := []string{}

	for _, name := range []*string{review.UserFirstName, review.UserLastName} {
		if name != nil && *name != "" {
			names = append(names, *name)
		}
	}

	r.UserID = review.UserID
	r.UserName = strings.Join(names, " ")
	r.Rating = review.Rating
	r.Review = review.Text
	r.CreatedAt = timezone.Format(review.CreatedAt, constant.DateFormat)
	r.UpdatedAt = timezone.Format(review.UpdatedAt, constant.DateFormat)
}

type ListingResponse struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Location      string           `json:"location"`
	PricePerNight float64          `json:"pricePerNight"`
	Bedrooms      int              `json:"bedrooms"`
	Bathrooms     int              `json:"bathrooms"`
	MaxGuests     int              `json:"maxGuests"`
	Amenities     []string         `json:"amenities"`
	Images        []string         `json:"images"`
	Host          HostResponse     `json:"host"`
	Reviews       []ReviewResponse `json:"reviews"`
	AverageRating float64          `json:"averageRating"`
	ReviewCount   int              `json:"reviewCount"`
	IsArchived    bool             `json:"isArchived"`
	ArchivedAt    *string          `json:"archivedAt"`
	gDto.Metadata
}

func (r *ListingResponse) FromModel(listing model.Listing, reviews []model.Review) {
	r.ID = listing.ID
	r.Title = listing.Title
	r.Description = listing.Description
	r.Location = listing.Location
	r.PricePerNight = listing.PricePerNight
	r.Bedrooms = listing.Bedrooms
	r.Bathrooms = listing.Bathrooms
	r.MaxGuests = listing.MaxGuests
	r.Amenities = nonNil(listing.Amenities)
	r.Images = nonNil(listing.Images)
	r.Host = HostResponse{
		ID:           listing.HostID,
		Name:         listing.HostName,
		ProfileImage: listing.HostProfileImage,
	}
	r.IsArchived = listing.IsArchived
	r.ArchivedAt = nil

	if listing.IsArchived && listing.ArchivedAt != nil {
		archivedAt := timezone.Format(*listing.ArchivedAt, constant.DateFormat)
		r.ArchivedAt = &archivedAt
	}

	r.Reviews = make([]ReviewResponse, len(reviews))
	for i, review := range reviews {
		r.Reviews[i].FromModel(review)
	}

	r.ReviewCount = len(reviews)
	r.AverageRating = AverageRating(reviews)
	r.Metadata.FromModel(listing.Metadata)
}

// AverageRating is the mean rating rounded to one decimal, 0 without reviews.
func AverageRating(reviews []model.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}

	total := 0
	for _, review := range reviews {
		total += review.Rating
	}

	const precision = 10

	return math.Round(float64(total)/float64(len(reviews))*precision) / precision
}

type GetListingsResponse struct {
	Listings  []ListingResponse `json:"listings"`
	TotalData int               `json:"totalData"`
	TotalPage int               `json:"totalPage"`
}

func (r *GetListingsResponse) FromModels(listings []model.Listing, reviews map[string][]model.Review, totalData, limit int) {
	r.Listings = make([]ListingResponse, len(listings))
	for i, listing := range listings {
		r.Listings[i].FromModel(listing, reviews[listing.ID])
	}

	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
}

func nonNil[S ~[]string](values S) []string {
	if values == nil {
		return []string{}
	}

	return values
}

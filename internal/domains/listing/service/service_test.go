package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stayfinder/config"
	"stayfinder/infras/otel/mocks"
	s3Mocks "stayfinder/infras/s3/mocks"
	listingMocks "stayfinder/internal/domains/listing/mocks"
	"stayfinder/internal/domains/listing/model"
	"stayfinder/internal/domains/listing/model/dto"
	"stayfinder/internal/domains/listing/service"
	"stayfinder/shared/constant"
	gDto "stayfinder/shared/dto"
	"stayfinder/shared/failure"
	gModel "stayfinder/shared/model"
	"stayfinder/shared/timezone"
)

const pixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

type fixture struct {
	repo    *listingMocks.MockListing
	reviews *listingMocks.MockReview
	storage *s3Mocks.MockS3
	svc     service.Listing
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.App.Upload.MaxImageSizeMB = 5

	f := fixture{
		repo:    listingMocks.NewMockListing(ctrl),
		reviews: listingMocks.NewMockReview(ctrl),
		storage: s3Mocks.NewMockS3(ctrl),
	}
	f.svc = service.New(f.repo, f.reviews, f.storage, cfg, mocks.NewOtel())

	return f
}

func hostCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "host-1")
}

func activeListing(id string) model.Listing {
	return model.Listing{
		ID:            id,
		Title:         "Lakeside cabin",
		Description:   "Quiet cabin by the lake",
		Location:      "Hallstatt",
		PricePerNight: 120,
		Bedrooms:      2,
		Bathrooms:     1,
		MaxGuests:     4,
		Amenities:     pq.StringArray{"wifi"},
		Images:        pq.StringArray{},
		HostID:        "host-1",
		HostName:      "Anna",
		Metadata:      gModel.NewMetadata("host-1", timezone.Now()),
	}
}

func archivedListing(id string) model.Listing {
	listing := activeListing(id)
	archivedAt := timezone.Now()
	listing.IsArchived = true
	listing.ArchivedAt = &archivedAt

	return listing
}

func ptr[T any](v T) *T {
	return &v
}

func TestListingService_GetAll(t *testing.T) {
	tests := []struct {
		name            string
		includeArchived bool
		setupMock       func(f fixture)
		wantErr         bool
		wantCount       int
		wantAverage     float64
	}{
		{
			name:            "active only, ratings folded into the listing",
			includeArchived: false,
			setupMock: func(f fixture) {
				f.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), model.ActiveOnly(false)).
					Return([]model.Listing{activeListing("l-1")}, nil)

				f.reviews.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), model.ReviewsOf([]string{"l-1"})).
					Return([]model.Review{
						{ListingID: "l-1", UserID: "u-1", Rating: 4},
						{ListingID: "l-1", UserID: "u-2", Rating: 5},
						{ListingID: "l-1", UserID: "u-3", Rating: 5},
					}, nil)
			},
			wantCount:   1,
			wantAverage: 4.7,
		},
		{
			name:            "include archived drops the filter",
			includeArchived: true,
			setupMock: func(f fixture) {
				f.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gDto.FilterGroup{}).
					Return([]model.Listing{activeListing("l-1"), archivedListing("l-2")}, nil)

				f.reviews.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)
			},
			wantCount: 2,
		},
		{
			name: "empty directory skips the review query",
			setupMock: func(f fixture) {
				f.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Listing{}, nil)
			},
			wantCount: 0,
		},
		{
			name: "repository error",
			setupMock: func(f fixture) {
				f.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{}, tt.includeArchived)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Len(t, res.Listings, tt.wantCount)
			assert.Equal(t, tt.wantCount, res.TotalData)
			assert.Equal(t, 1, res.TotalPage)

			if tt.wantCount > 0 && tt.wantAverage > 0 {
				assert.InDelta(t, tt.wantAverage, res.Listings[0].AverageRating, 0.001)
				assert.Equal(t, 3, res.Listings[0].ReviewCount)
			}
		})
	}
}

func TestListingService_GetAll_Paged(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().
		GetAll(gomock.Any(), gDto.QueryParams{Page: 2, Limit: 1, SortBy: "listings.price_per_night", SortDir: gDto.SortDirAsc}, gomock.Any()).
		Return([]model.Listing{activeListing("l-2")}, nil)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	f.reviews.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 2, Limit: 1, SortBy: "pricePerNight"}, false)

	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 3, res.TotalPage)
}

func TestListingService_Get(t *testing.T) {
	tests := []struct {
		name            string
		includeArchived bool
		stored          model.Listing
		wantNotFound    bool
	}{
		{
			name:            "archived listing is hidden from normal lookups",
			includeArchived: false,
			stored:          model.Listing{},
			wantNotFound:    true,
		},
		{
			name:            "archived listing is returned when requested",
			includeArchived: true,
			stored:          archivedListing("l-1"),
		},
		{
			name:            "missing listing",
			includeArchived: true,
			stored:          model.Listing{},
			wantNotFound:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().
				Get(gomock.Any(), model.Visible("l-1", tt.includeArchived)).
				Return(tt.stored, nil)

			if !tt.wantNotFound {
				f.reviews.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			}

			res, err := f.svc.Get(context.Background(), "l-1", tt.includeArchived)

			if tt.wantNotFound {
				assert.True(t, failure.IsNotFound(err))

				return
			}

			require.NoError(t, err)
			assert.True(t, res.IsArchived)
			assert.NotNil(t, res.ArchivedAt)
		})
	}
}

func TestListingService_Update(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.UpdateListingRequest
		setupMock func(f fixture)
		check     func(t *testing.T, res dto.ListingResponse, err error)
	}{
		{
			name: "missing listing",
			req:  dto.UpdateListingRequest{Title: ptr("New title")},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), model.ByID("l-1")).Return(model.Listing{}, nil)
			},
			check: func(t *testing.T, _ dto.ListingResponse, err error) {
				assert.True(t, failure.IsNotFound(err))
			},
		},
		{
			name: "archived listing cannot be edited",
			req:  dto.UpdateListingRequest{Title: ptr("New title")},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), model.ByID("l-1")).Return(archivedListing("l-1"), nil)
			},
			check: func(t *testing.T, _ dto.ListingResponse, err error) {
				require.True(t, failure.IsConflict(err))
				assert.Equal(t, "listing is archived, unarchive it before editing", err.Error())
			},
		},
		{
			name: "merged result is re-validated",
			req:  dto.UpdateListingRequest{PricePerNight: ptr(-10.0)},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), model.ByID("l-1")).Return(activeListing("l-1"), nil)
			},
			check: func(t *testing.T, _ dto.ListingResponse, err error) {
				assert.True(t, failure.IsValidation(err))
			},
		},
		{
			name: "successful update writes only the patched columns",
			req:  dto.UpdateListingRequest{Title: ptr("Renovated cabin"), MaxGuests: ptr(6)},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), model.ByID("l-1")).Return(activeListing("l-1"), nil)

				f.repo.EXPECT().
					UpdateCount(gomock.Any(), gomock.Any(), model.ByIDAndArchived("l-1", false)).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int, error) {
						assert.Equal(t, "Renovated cabin", *fields["title"].(*string))
						assert.Equal(t, 6, *fields["max_guests"].(*int))
						assert.NotContains(t, fields, "description")
						assert.Equal(t, "host-1", fields[constant.FieldModifiedBy])

						return 1, nil
					})

				updated := activeListing("l-1")
				updated.Title = "Renovated cabin"
				updated.MaxGuests = 6

				f.repo.EXPECT().Get(gomock.Any(), model.Visible("l-1", true)).Return(updated, nil)
				f.reviews.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			check: func(t *testing.T, res dto.ListingResponse, err error) {
				require.NoError(t, err)
				assert.Equal(t, "Renovated cabin", res.Title)
				assert.Equal(t, 6, res.MaxGuests)
			},
		},
		{
			name: "archived between read and write",
			req:  dto.UpdateListingRequest{Title: ptr("Renovated cabin")},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), model.ByID("l-1")).Return(activeListing("l-1"), nil)
				f.repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
			},
			check: func(t *testing.T, _ dto.ListingResponse, err error) {
				assert.True(t, failure.IsConflict(err))
			},
		},
		{
			name: "empty patch returns the stored listing",
			req:  dto.UpdateListingRequest{},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), model.ByID("l-1")).Return(activeListing("l-1"), nil)
				f.reviews.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			check: func(t *testing.T, res dto.ListingResponse, err error) {
				require.NoError(t, err)
				assert.Equal(t, "Lakeside cabin", res.Title)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Update(hostCtx(), "l-1", tt.req)
			tt.check(t, res, err)
		})
	}
}

func TestListingService_Create(t *testing.T) {
	f := newFixture(t)

	req := dto.CreateListingRequest{ListingFields: dto.ListingFields{
		Title:         "Loft",
		Description:   "Bright loft",
		Location:      "Lisbon",
		PricePerNight: 90,
		Bedrooms:      1,
		Bathrooms:     1,
		MaxGuests:     2,
	}}

	f.repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, listing model.Listing) error {
			assert.Equal(t, "host-1", listing.HostID)
			assert.False(t, listing.IsArchived)
			assert.Nil(t, listing.ArchivedAt)

			return nil
		})

	res, err := f.svc.Create(hostCtx(), req)

	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, []string{}, res.Amenities)
	assert.Zero(t, res.ReviewCount)
}

func TestListingService_Delete(t *testing.T) {
	t.Run("missing listing", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), model.ByID("l-1")).Return(model.Listing{}, nil)

		assert.True(t, failure.IsNotFound(f.svc.Delete(hostCtx(), "l-1")))
	})

	t.Run("removes archived listings and their uploaded photos", func(t *testing.T) {
		f := newFixture(t)

		stored := archivedListing("l-1")
		stored.Images = pq.StringArray{
			"https://cdn.test/listings/l-1/a.png",
			"https://images.example.com/b.png",
		}

		f.repo.EXPECT().Get(gomock.Any(), model.ByID("l-1")).Return(stored, nil)
		f.repo.EXPECT().Delete(gomock.Any(), model.ByID("l-1")).Return(nil)
		f.storage.EXPECT().KeyFromURL("https://cdn.test/listings/l-1/a.png").Return("listings/l-1/a.png", true)
		f.storage.EXPECT().KeyFromURL("https://images.example.com/b.png").Return("", false)
		f.storage.EXPECT().Remove(gomock.Any(), "listings/l-1/a.png").Return(errors.New("bucket unavailable"))

		assert.NoError(t, f.svc.Delete(hostCtx(), "l-1"))
	})
}

func TestListingService_UpsertReview(t *testing.T) {
	req := dto.UpsertReviewRequest{Rating: 5, Review: "  Lovely stay  "}

	t.Run("archived listing cannot be reviewed", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), model.Visible("l-1", false)).Return(model.Listing{}, nil)

		_, err := f.svc.UpsertReview(hostCtx(), "l-1", req)
		assert.True(t, failure.IsNotFound(err))
	})

	t.Run("anonymous caller", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.UpsertReview(context.Background(), "l-1", req)
		assert.Equal(t, failure.KindUnauthorized, failure.GetKind(err))
	})

	t.Run("review is keyed by listing and user", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), model.Visible("l-1", false)).Return(activeListing("l-1"), nil)
		f.reviews.EXPECT().
			Upsert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, review model.Review) error {
				assert.Equal(t, "l-1", review.ListingID)
				assert.Equal(t, "host-1", review.UserID)
				assert.Equal(t, "Lovely stay", review.Text)

				return nil
			})
		f.reviews.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Review{{ListingID: "l-1", UserID: "host-1", Rating: 5}}, nil)

		res, err := f.svc.UpsertReview(hostCtx(), "l-1", req)

		require.NoError(t, err)
		assert.Equal(t, 1, res.ReviewCount)
		assert.InDelta(t, 5.0, res.AverageRating, 0.001)
	})
}

func TestListingService_UploadImage(t *testing.T) {
	tests := []struct {
		name      string
		image     string
		setupMock func(f fixture)
		check     func(t *testing.T, res dto.ListingResponse, err error)
	}{
		{
			name:  "archived listing",
			image: pixelPNG,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), model.ByID("l-1")).Return(archivedListing("l-1"), nil)
			},
			check: func(t *testing.T, _ dto.ListingResponse, err error) {
				assert.True(t, failure.IsConflict(err))
			},
		},
		{
			name:  "undecodable image",
			image: "data:image/png;base64,@@@",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), model.ByID("l-1")).Return(activeListing("l-1"), nil)
			},
			check: func(t *testing.T, _ dto.ListingResponse, err error) {
				assert.True(t, failure.IsValidation(err))
			},
		},
		{
			name:  "image appended to the gallery",
			image: pixelPNG,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), model.ByID("l-1")).Return(activeListing("l-1"), nil)
				f.storage.EXPECT().
					Put(gomock.Any(), gomock.Any(), "image/png", gomock.Any()).
					DoAndReturn(func(_ context.Context, key, _ string, _ []byte) (string, error) {
						assert.True(t, strings.HasPrefix(key, "listings/l-1/"))
						assert.True(t, strings.HasSuffix(key, ".png"))

						return "https://cdn.test/listings/l-1/a.png", nil
					})
				f.repo.EXPECT().
					UpdateCount(gomock.Any(), gomock.Any(), model.ByIDAndArchived("l-1", false)).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int, error) {
						assert.Equal(t, pq.StringArray{"https://cdn.test/listings/l-1/a.png"}, fields[model.FieldImages])

						return 1, nil
					})

				withImage := activeListing("l-1")
				withImage.Images = pq.StringArray{"https://cdn.test/listings/l-1/a.png"}

				f.repo.EXPECT().Get(gomock.Any(), model.Visible("l-1", true)).Return(withImage, nil)
				f.reviews.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			check: func(t *testing.T, res dto.ListingResponse, err error) {
				require.NoError(t, err)
				assert.Equal(t, []string{"https://cdn.test/listings/l-1/a.png"}, res.Images)
			},
		},
		{
			name:  "failed write removes the uploaded object",
			image: pixelPNG,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), model.ByID("l-1")).Return(activeListing("l-1"), nil)
				f.storage.EXPECT().
					Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.test/listings/l-1/a.png", nil)
				f.repo.EXPECT().
					UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(0, errors.New("database error"))
				f.storage.EXPECT().Remove(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, _ dto.ListingResponse, err error) {
				require.Error(t, err)
				assert.Equal(t, failure.KindUnexpected, failure.GetKind(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.UploadImage(hostCtx(), "l-1", dto.UploadImageRequest{Image: tt.image})
			tt.check(t, res, err)
		})
	}
}

package listing_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"stayfinder/infras/otel/mocks"
	archivalDto "stayfinder/internal/domains/archival/model/dto"
	archivalMocks "stayfinder/internal/domains/archival/mocks"
	bookingDto "stayfinder/internal/domains/booking/model/dto"
	"stayfinder/internal/domains/listing/model/dto"
	listingMocks "stayfinder/internal/domains/listing/mocks"
	"stayfinder/internal/handlers/listing"
	"stayfinder/shared/constant"
	gDto "stayfinder/shared/dto"
	"stayfinder/shared/failure"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	listings *listingMocks.MockListingService
	archival *archivalMocks.MockArchivalService
	router   chi.Router
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := fixture{
		listings: listingMocks.NewMockListingService(ctrl),
		archival: archivalMocks.NewMockArchivalService(ctrl),
		router:   chi.NewRouter(),
	}

	f.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), constant.ContextKeyUserID, "host-1")
			ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleHost)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})

	h := listing.New(f.listings, f.archival, mocks.NewOtel())
	h.Router(f.router)

	return f
}

func (f fixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestGetListings(t *testing.T) {
	tests := []struct {
		name            string
		target          string
		includeArchived bool
		err             error
		wantCode        int
	}{
		{name: "active only by default", target: "/listings", wantCode: http.StatusOK},
		{name: "archived on request", target: "/listings?includeArchived=true", includeArchived: true, wantCode: http.StatusOK},
		{name: "malformed flag means false", target: "/listings?includeArchived=maybe", wantCode: http.StatusOK},
		{name: "service failure", target: "/listings", err: errors.New("db down"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.listings.EXPECT().
				GetAll(gomock.Any(), gDto.QueryParams{}, tt.includeArchived).
				Return(dto.GetListingsResponse{Listings: []dto.ListingResponse{{ID: "l-1"}}, TotalData: 1, TotalPage: 1}, tt.err)

			rec := f.do(http.MethodGet, tt.target, "")

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestGetListingByID(t *testing.T) {
	t.Run("archived listing hidden", func(t *testing.T) {
		f := newFixture(t)

		f.listings.EXPECT().Get(gomock.Any(), "l-1", false).Return(dto.ListingResponse{}, failure.NotFound("listing not found"))

		rec := f.do(http.MethodGet, "/listings/l-1", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "listing not found", decode(t, rec)["error"])
	})

	t.Run("archived listing on request", func(t *testing.T) {
		f := newFixture(t)

		f.listings.EXPECT().Get(gomock.Any(), "l-1", true).Return(dto.ListingResponse{ID: "l-1", IsArchived: true}, nil)

		rec := f.do(http.MethodGet, "/listings/l-1?includeArchived=true", "")

		require.Equal(t, http.StatusOK, rec.Code)

		data, _ := decode(t, rec)["data"].(map[string]any)
		assert.Equal(t, true, data["isArchived"])
	})
}

func TestUpdateListing(t *testing.T) {
	t.Run("archived listing is a bad request", func(t *testing.T) {
		f := newFixture(t)

		f.listings.EXPECT().Update(gomock.Any(), "l-1", gomock.Any()).
			Return(dto.ListingResponse{}, failure.Conflict("listing is archived, unarchive it before editing"))

		rec := f.do(http.MethodPut, "/listings/l-1", `{"title":"Loft"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPut, "/listings/l-1", `{"title":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestArchiveListing(t *testing.T) {
	keep := false

	tests := []struct {
		name     string
		body     string
		mock     func(f fixture)
		wantCode int
	}{
		{
			name: "cancel policy returns affected bookings",
			body: `{"allowStays":false,"reason":"Renovation"}`,
			mock: func(f fixture) {
				f.archival.EXPECT().
					Archive(gomock.Any(), "l-1", archivalDto.ArchiveRequest{AllowStays: &keep, Reason: "Renovation"}).
					Return(archivalDto.ArchiveResponse{
						Listing:          dto.ListingResponse{ID: "l-1", IsArchived: true},
						AffectedBookings: []bookingDto.BookingResponse{{ID: "b-1"}},
					}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:     "policy is required",
			body:     `{"reason":"Renovation"}`,
			mock:     func(fixture) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "already archived",
			body: `{"allowStays":true}`,
			mock: func(f fixture) {
				f.archival.EXPECT().Archive(gomock.Any(), "l-1", gomock.Any()).
					Return(archivalDto.ArchiveResponse{}, failure.Conflict("listing is already archived"))
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "missing listing",
			body: `{"allowStays":true}`,
			mock: func(f fixture) {
				f.archival.EXPECT().Archive(gomock.Any(), "l-1", gomock.Any()).
					Return(archivalDto.ArchiveResponse{}, failure.NotFound("listing not found"))
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.mock(f)

			rec := f.do(http.MethodPatch, "/listings/l-1/archive", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode == http.StatusOK {
				data, _ := decode(t, rec)["data"].(map[string]any)
				affected, _ := data["affectedBookings"].([]any)
				assert.Len(t, affected, 1)
			}
		})
	}
}

func TestUnarchiveListing(t *testing.T) {
	f := newFixture(t)

	f.archival.EXPECT().Unarchive(gomock.Any(), "l-1").Return(archivalDto.UnarchiveResponse{}, failure.Conflict("listing is not archived"))

	rec := f.do(http.MethodPatch, "/listings/l-1/unarchive", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "listing is not archived", decode(t, rec)["error"])
}

func TestResumeCancellation(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		f := newFixture(t)

		f.archival.EXPECT().ResumeCancellation(gomock.Any(), "l-1", archivalDto.ResumeRequest{}).Return(archivalDto.ArchiveResponse{}, nil)

		rec := f.do(http.MethodPost, "/listings/l-1/archive/resume", "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("with reason", func(t *testing.T) {
		f := newFixture(t)

		f.archival.EXPECT().ResumeCancellation(gomock.Any(), "l-1", archivalDto.ResumeRequest{Reason: "Flood"}).Return(archivalDto.ArchiveResponse{}, nil)

		rec := f.do(http.MethodPost, "/listings/l-1/archive/resume", `{"reason":"Flood"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestDeleteListing(t *testing.T) {
	f := newFixture(t)

	f.listings.EXPECT().Delete(gomock.Any(), "l-1").Return(nil)

	rec := f.do(http.MethodDelete, "/listings/l-1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Listing deleted successfully", decode(t, rec)["message"])
}

func TestUpsertReview(t *testing.T) {
	f := newFixture(t)

	f.listings.EXPECT().
		UpsertReview(gomock.Any(), "l-1", dto.UpsertReviewRequest{Rating: 5, Review: "Lovely"}).
		Return(dto.ListingResponse{ID: "l-1", ReviewCount: 1, AverageRating: 5}, nil)

	rec := f.do(http.MethodPost, "/listings/l-1/reviews", `{"rating":5,"review":"Lovely"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

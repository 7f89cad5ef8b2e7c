package archive_test

import (
	"context"
	"encoding/json"
	"errors"
	"roombook/config"
	s3Mocks "roombook/infras/s3/mocks"
	"roombook/internal/domains/booking/model"
	"roombook/internal/domains/retention/archive"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func expired() []model.Booking {
	return []model.Booking{
		{
			ID:          "b1",
			RoomID:      "r1",
			UserID:      "u1",
			BookingDate: time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC),
			StartTime:   time.Date(2019, 12, 31, 23, 0, 0, 0, time.UTC),
			EndTime:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			Purpose:     "Meeting",
		},
	}
}

func enabledConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Archive.Enable = true
	cfg.Archive.Directory = "expired-bookings"

	return cfg
}

func TestS3Archive_Store(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := s3Mocks.NewMockS3(ctrl)

	cutoff := time.Date(2025, 6, 2, 3, 0, 0, 0, time.UTC)

	client.EXPECT().
		PutObject(gomock.Any(), gomock.Any(), "application/json", gomock.Any()).
		DoAndReturn(func(_ context.Context, key, _ string, data []byte) (string, error) {
			assert.True(t, strings.HasPrefix(key, "expired-bookings/2025/06/02/20250602T030000Z-"))
			assert.True(t, strings.HasSuffix(key, ".json"))

			var docs []map[string]any
			require.NoError(t, json.Unmarshal(data, &docs))
			require.Len(t, docs, 1)
			assert.Equal(t, "b1", docs[0]["id"])
			assert.Equal(t, "2019-12-31", docs[0]["booking_date"])

			return "s3://bucket/" + key, nil
		})

	err := archive.New(enabledConfig(), client).Store(context.Background(), cutoff, expired())

	assert.NoError(t, err)
}

func TestS3Archive_UploadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := s3Mocks.NewMockS3(ctrl)

	client.EXPECT().
		PutObject(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("bucket unreachable"))

	err := archive.New(enabledConfig(), client).Store(context.Background(), time.Now(), expired())

	assert.Error(t, err)
}

func TestS3Archive_EmptyBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := s3Mocks.NewMockS3(ctrl)

	err := archive.New(enabledConfig(), client).Store(context.Background(), time.Now(), nil)

	assert.NoError(t, err)
}

func TestNew_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := s3Mocks.NewMockS3(ctrl)

	cfg := enabledConfig()
	cfg.Archive.Enable = false

	err := archive.New(cfg, client).Store(context.Background(), time.Now(), expired())

	assert.NoError(t, err)
}

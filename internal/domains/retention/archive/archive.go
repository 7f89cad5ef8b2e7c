package archive

//go:generate go run go.uber.org/mock/mockgen -source=./archive.go -destination=./mocks/archive_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"roombook/config"
	"roombook/infras/s3"
	"roombook/internal/domains/booking/model"
	"roombook/internal/domains/booking/model/dto"
	"roombook/shared/constant"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const fileTimeFormat = "20060102T150405Z"

// Archive keeps a copy of bookings before the sweeper removes them.
type Archive interface {
	Store(ctx context.Context, cutoff time.Time, bookings []model.Booking) error
}

// New returns an S3 archive, or one that keeps nothing when archiving is off.
func New(cfg *config.Config, client s3.S3) Archive {
	if !cfg.Archive.Enable || client == nil {
		return NewNoop()
	}

	return &s3Archive{
		client: client,
		cfg:    cfg,
	}
}

type s3Archive struct {
	client s3.S3
	cfg    *config.Config
}

// Store writes one JSON document per batch under <directory>/<yyyy>/<mm>/<dd>/.
func (a *s3Archive) Store(ctx context.Context, cutoff time.Time, bookings []model.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	data, err := json.Marshal(dto.FromModels(bookings))
	if err != nil {
		return fmt.Errorf("failed to encode archived bookings: %w", err)
	}

	cutoff = cutoff.UTC()
	key := path.Join(
		a.cfg.Archive.Directory,
		cutoff.Format("2006/01/02"),
		fmt.Sprintf("%s-%s.json", cutoff.Format(fileTimeFormat), uuid.NewString()),
	)

	url, err := a.client.PutObject(ctx, key, constant.ContentTypeJSON, data)
	if err != nil {
		return fmt.Errorf("failed to archive bookings: %w", err)
	}

	log.Info().Str("url", url).Int("count", len(bookings)).Msg("archived expired bookings")

	return nil
}

type noopArchive struct{}

func NewNoop() Archive {
	return noopArchive{}
}

func (noopArchive) Store(context.Context, time.Time, []model.Booking) error {
	return nil
}

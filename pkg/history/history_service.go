package history

import (
	"AgroTech-Vision/domain"
	"AgroTech-Vision/entities"
	"AgroTech-Vision/internal/utils/mailing"
	"AgroTech-Vision/internal/utils/storage"
	"bytes"
	"context"
	"io"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type (
	HistoryService interface {
		AddEntry(ctx context.Context, req domain.NewWeightEntry, image *ArchiveImage) (entities.WeightEntry, error)
		GetEntries(ctx context.Context, query domain.HistoryQuery) []entities.WeightEntry
		GetStats(ctx context.Context) domain.HistoryStats
		RemoveEntry(ctx context.Context, id string) error
		ClearHistory(ctx context.Context) error
		ExportHistory(ctx context.Context, w io.Writer) (string, error)
		MailExport(ctx context.Context, req domain.MailExportRequest) error
	}

	// ArchiveImage is the analyzed image to store alongside a kept entry.
	ArchiveImage struct {
		Data     []byte
		MimeType string
	}

	// SendMailFunc matches mailing.SendMail.
	SendMailFunc func(toEmail string, subject string, body string, attachments ...mailing.Attachment) error

	historyService struct {
		store    *HistoryStore
		s3       storage.AwsS3
		sendMail SendMailFunc
		now      func() time.Time
	}
)

// NewHistoryService accepts a nil s3 and a nil sendMail; the matching features are then off.
func NewHistoryService(store *HistoryStore, s3 storage.AwsS3, sendMail SendMailFunc) HistoryService {
	return &historyService{
		store:    store,
		s3:       s3,
		sendMail: sendMail,
		now:      time.Now,
	}
}

func (s *historyService) AddEntry(ctx context.Context, req domain.NewWeightEntry, image *ArchiveImage) (entities.WeightEntry, error) {
	if req.Weight < 0 {
		req.Weight = 0
	}

	if s.s3 != nil && image != nil && len(image.Data) > 0 && req.ImageURL == "" {
		objectKey, err := s.s3.UploadFile(ctx, uuid.NewString(), image.Data, image.MimeType, domain.ArchiveImagesFolder, storage.AllowImage...)
		if err != nil {
			log.Warnf("Error archiving analyzed image: %v", err)
		} else {
			req.ImageURL = s.s3.GetPublicLinkKey(objectKey)
		}
	}

	return s.store.AddEntry(ctx, req)
}

// GetEntries applies the condition filter, then the device filter, then the limit.
func (s *historyService) GetEntries(_ context.Context, query domain.HistoryQuery) []entities.WeightEntry {
	if query.Condition == "" && query.Device == "" && query.Limit > 0 {
		return s.store.Recent(query.Limit)
	}

	var entries []entities.WeightEntry
	if query.Condition != "" {
		entries = s.store.ByCondition(query.Condition)
	} else {
		entries = s.store.Entries()
	}

	if query.Device != "" {
		filtered := []entities.WeightEntry{}
		for _, entry := range entries {
			if matchesDevice(entry, query.Device) {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}

	if query.Limit > 0 && query.Limit < len(entries) {
		entries = entries[:query.Limit]
	}
	return entries
}

func (s *historyService) GetStats(_ context.Context) domain.HistoryStats {
	return s.store.Stats()
}

func (s *historyService) RemoveEntry(ctx context.Context, id string) error {
	removed, found, err := s.store.RemoveEntry(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrEntryNotFound
	}

	if s.s3 != nil && removed.ImageURL != "" {
		if objectKey := s.s3.GetObjectKeyFromLink(removed.ImageURL); objectKey != "" {
			if err := s.s3.DeleteFile(ctx, objectKey); err != nil {
				log.Warnf("Error deleting archived image %s: %v", objectKey, err)
			}
		}
	}
	return nil
}

// ClearHistory leaves archived images in place.
func (s *historyService) ClearHistory(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// ExportHistory writes the export document and returns its download file name.
func (s *historyService) ExportHistory(_ context.Context, w io.Writer) (string, error) {
	if err := s.store.Export(w); err != nil {
		return "", err
	}
	return ExportFileName(s.now()), nil
}

func (s *historyService) MailExport(ctx context.Context, req domain.MailExportRequest) error {
	if s.sendMail == nil {
		return domain.ErrNotConfigured
	}

	var buf bytes.Buffer
	fileName, err := s.ExportHistory(ctx, &buf)
	if err != nil {
		return err
	}

	return s.sendMail(req.Email, domain.ExportMailSubject, domain.ExportMailBody,
		mailing.Attachment{Name: fileName, Data: buf.Bytes()})
}

package config

import (
	"AgroTech-Vision/domain"
	"AgroTech-Vision/internal/api/routes"
	"AgroTech-Vision/internal/utils"
	"AgroTech-Vision/internal/utils/mailing"
	"AgroTech-Vision/internal/utils/storage"
	"AgroTech-Vision/pkg/analysis"
	"AgroTech-Vision/pkg/history"
	"AgroTech-Vision/pkg/prediction"
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

const defaultHistoryDir = "./data"

// Stack is the analysis and history wiring shared by the HTTP server and vacactl.
type Stack struct {
	Controller     analysis.UploadController
	HistoryService history.HistoryService
	HistoryStore   *history.HistoryStore
}

// NewStack builds the stack from the loaded configuration. db is only used when
// STORAGE_DRIVER is postgres.
func NewStack(ctx context.Context, db *gorm.DB) (*Stack, error) {
	localStorage, err := NewLocalStorage(db)
	if err != nil {
		return nil, err
	}

	s3, err := storage.NewAwsS3(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotConfigured) {
			return nil, err
		}
		log.Info("S3 bucket not configured, kept images are not archived")
	}

	var sendMail history.SendMailFunc
	if mailing.IsConfigured() {
		sendMail = mailing.SendMail
	}

	// Repository
	historyStore := history.NewHistoryStore(ctx, localStorage)

	// Service
	historyService := history.NewHistoryService(historyStore, s3, sendMail)
	predictionClient := prediction.NewPredictionClient(utils.APIBaseURL(), utils.PredictionTimeout())
	controller := analysis.NewUploadController(
		predictionClient,
		analysis.NewPreviewStore(routes.PreviewPathPrefix),
		historyService,
	)

	return &Stack{
		Controller:     controller,
		HistoryService: historyService,
		HistoryStore:   historyStore,
	}, nil
}

// UsesDatabase reports whether history is persisted in postgres.
func UsesDatabase() bool {
	return strings.EqualFold(utils.GetConfig("STORAGE_DRIVER"), "postgres")
}

func NewLocalStorage(db *gorm.DB) (history.LocalStorage, error) {
	if UsesDatabase() {
		if db == nil {
			return nil, errors.New("STORAGE_DRIVER is postgres but no database connection was provided")
		}
		return history.NewGormLocalStorage(db), nil
	}
	return history.NewFileLocalStorage(utils.GetConfigOrDefault("HISTORY_DIR", defaultHistoryDir))
}

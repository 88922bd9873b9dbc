package prediction

import (
	"AgroTech-Vision/domain"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type (
	PredictionClient interface {
		// PredictFile posts the image to {baseURL}/predict-file. Every failure is
		// returned as *domain.ApiError. onProgress may be nil.
		PredictFile(ctx context.Context, file FileUpload, onProgress ProgressFunc) (domain.RawPrediction, error)
	}

	FileUpload struct {
		Name     string
		MimeType string
		Data     []byte
	}

	ProgressFunc func(sent, total int64)

	predictionClient struct {
		baseURL    string
		httpClient *http.Client
	}
)

// NewPredictionClient builds a client for baseURL. A zero timeout keeps the
// transport default.
func NewPredictionClient(baseURL string, timeout time.Duration) PredictionClient {
	return &predictionClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func NewPredictionClientWithHTTP(baseURL string, httpClient *http.Client) PredictionClient {
	return &predictionClient{baseURL: baseURL, httpClient: httpClient}
}

func (c *predictionClient) PredictFile(ctx context.Context, file FileUpload, onProgress ProgressFunc) (domain.RawPrediction, error) {
	body, contentType, err := buildMultipartBody(file)
	if err != nil {
		return domain.RawPrediction{}, &domain.ApiError{Message: fmt.Sprintf("error creating form file: %s", err.Error())}
	}

	total := int64(body.Len())
	var reader io.Reader = body
	if onProgress != nil {
		reader = &progressReader{reader: body, total: total, onProgress: onProgress}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+domain.PredictFilePath, reader)
	if err != nil {
		return domain.RawPrediction{}, &domain.ApiError{Message: errorText(err)}
	}
	httpReq.ContentLength = total
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.RawPrediction{}, &domain.ApiError{Message: errorText(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return domain.RawPrediction{}, &domain.ApiError{
			Message: fmt.Sprintf(domain.MessageServerErrorFmt, resp.StatusCode),
			Status:  resp.StatusCode,
		}
	}

	var raw domain.RawPrediction
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		log.Warnf("prediction backend returned undecodable body: %v", err)
		return domain.RawPrediction{}, &domain.ApiError{
			Message: errorText(err),
			Status:  resp.StatusCode,
			Details: "response body is not valid JSON",
		}
	}

	return raw, nil
}

func buildMultipartBody(file FileUpload) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	name := file.Name
	if name == "" {
		name = "image"
	}
	mimeType := file.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, domain.PredictFileField, name))
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err = part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err = writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func errorText(err error) string {
	if err == nil || err.Error() == "" {
		return domain.UnknownErrorText
	}
	return err.Error()
}

type progressReader struct {
	reader     io.Reader
	sent       int64
	total      int64
	onProgress ProgressFunc
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.sent += int64(n)
		r.onProgress(r.sent, r.total)
	}
	return n, err
}

package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectAPI struct {
	puts    map[string][]byte
	types   map[string]string
	deleted []string
	putErr  error
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{puts: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjectAPI) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(params.Key)
	f.puts[key] = data
	f.types[key] = aws.ToString(params.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestUploadFile(t *testing.T) {
	api := newFakeObjectAPI()
	bucket := newAwsS3(api, "cattle", "sa-east-1")

	key, err := bucket.UploadFile(context.Background(), "abc", []byte("img"), "image/png", "weight-history", AllowImage...)
	require.NoError(t, err)

	assert.Equal(t, "weight-history/abc.png", key)
	assert.Equal(t, []byte("img"), api.puts[key])
	assert.Equal(t, "image/png", api.types[key])
}

func TestUploadFile_RejectsContentType(t *testing.T) {
	api := newFakeObjectAPI()
	bucket := newAwsS3(api, "cattle", "sa-east-1")

	_, err := bucket.UploadFile(context.Background(), "abc", []byte("gif"), "image/gif", "weight-history", AllowImage...)

	assert.True(t, errors.Is(err, ErrContentTypeNotAllowed))
	assert.Empty(t, api.puts)
}

func TestUploadFile_ClientError(t *testing.T) {
	api := newFakeObjectAPI()
	api.putErr = errors.New("access denied")
	bucket := newAwsS3(api, "cattle", "sa-east-1")

	_, err := bucket.UploadFile(context.Background(), "abc", []byte("img"), "image/jpeg", "weight-history")

	assert.ErrorContains(t, err, "access denied")
}

func TestPublicLinks(t *testing.T) {
	bucket := newAwsS3(newFakeObjectAPI(), "cattle", "sa-east-1")

	link := bucket.GetPublicLinkKey("weight-history/abc.jpg")
	assert.Equal(t, "https://cattle.s3.sa-east-1.amazonaws.com/weight-history/abc.jpg", link)
	assert.Equal(t, "weight-history/abc.jpg", bucket.GetObjectKeyFromLink(link))
	assert.Empty(t, bucket.GetObjectKeyFromLink("https://example.com/abc.jpg"))
}

func TestDeleteFile(t *testing.T) {
	api := newFakeObjectAPI()
	bucket := newAwsS3(api, "cattle", "sa-east-1")

	require.NoError(t, bucket.DeleteFile(context.Background(), "weight-history/abc.jpg"))
	assert.Equal(t, []string{"weight-history/abc.jpg"}, api.deleted)
}

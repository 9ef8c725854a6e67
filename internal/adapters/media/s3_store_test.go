package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/vidtube_backend/internal/core/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutObject struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutObject) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		b, _ := io.ReadAll(params.Body)
		f.body = string(b)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Upload(t *testing.T) {
	fake := &fakePutObject{}
	store := newS3Store(fake, "avatars", "https://cdn.example.com/")
	store.now = func() time.Time { return time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC) }

	res, err := store.Upload(context.Background(), domain.MediaFile{
		Filename:    "Me.PNG",
		ContentType: "image/png",
		Size:        5,
		Body:        strings.NewReader("bytes"),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Key, "media/2024/5/17/"))
	assert.True(t, strings.HasSuffix(res.Key, ".png"))
	assert.Equal(t, "https://cdn.example.com/"+res.Key, res.URL)

	require.NotNil(t, fake.input)
	assert.Equal(t, "avatars", aws.ToString(fake.input.Bucket))
	assert.Equal(t, res.Key, aws.ToString(fake.input.Key))
	assert.Equal(t, "image/png", aws.ToString(fake.input.ContentType))
	assert.Equal(t, int64(5), aws.ToInt64(fake.input.ContentLength))
	assert.Equal(t, "bytes", fake.body)
}

func TestS3Store_UploadError(t *testing.T) {
	fake := &fakePutObject{err: errors.New("access denied")}
	store := newS3Store(fake, "avatars", "https://cdn.example.com")

	res, err := store.Upload(context.Background(), domain.MediaFile{Filename: "a.jpg", Body: strings.NewReader("x")})
	assert.Nil(t, res)
	assert.ErrorContains(t, err, "access denied")
}

func TestS3Store_UploadWithoutBody(t *testing.T) {
	store := newS3Store(&fakePutObject{}, "avatars", "https://cdn.example.com")

	_, err := store.Upload(context.Background(), domain.MediaFile{Filename: "a.jpg"})
	assert.Error(t, err)
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}

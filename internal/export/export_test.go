package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casa-nova-rsvp/internal/models"
)

func sampleConfirmations() []models.Confirmation {
	return []models.Confirmation{
		{ID: 3, Name: "Carla Dias", ConfirmedAt: time.Date(2026, 3, 14, 21, 30, 0, 0, time.UTC), Status: models.StatusConfirmed},
		{ID: 2, Name: `Bruno "Bê" Lima`, ConfirmedAt: time.Date(2026, 3, 14, 12, 5, 0, 0, time.UTC), Status: models.StatusConfirmed},
		{ID: 1, Name: "Souza, Ana", ConfirmedAt: time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC), Status: models.StatusConfirmed},
	}
}

func TestWriteCSV_Golden(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleConfirmations(), loc))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "confirmacoes", buf.Bytes())
}

func TestWriteCSV_EmptyHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil, time.UTC))
	assert.Equal(t, "ID,Nome,Data Confirmação,Status\r\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriteCSV_WriterError(t *testing.T) {
	err := WriteCSV(failingWriter{}, sampleConfirmations(), time.UTC)
	assert.ErrorContains(t, err, "broken pipe")
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, "confirmacoes_20260314_090507.csv", Filename(now))
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	fake := &fakePutter{}
	u := &S3Uploader{client: fake, bucket: "rsvp-exports", prefix: "casa-nova"}

	key, err := u.Upload(context.Background(), "confirmacoes_20260314_090507.csv", []byte("ID,Nome\r\n"))
	require.NoError(t, err)

	assert.Equal(t, "casa-nova/confirmacoes_20260314_090507.csv", key)
	assert.Equal(t, "rsvp-exports", aws.ToString(fake.input.Bucket))
	assert.Equal(t, key, aws.ToString(fake.input.Key))
	assert.Equal(t, ContentType, aws.ToString(fake.input.ContentType))
	assert.Equal(t, "ID,Nome\r\n", string(fake.body))
}

func TestS3Uploader_NoPrefix(t *testing.T) {
	fake := &fakePutter{}
	u := &S3Uploader{client: fake, bucket: "b"}

	key, err := u.Upload(context.Background(), "x.csv", nil)
	require.NoError(t, err)
	assert.Equal(t, "x.csv", key)
}

func TestS3Uploader_Error(t *testing.T) {
	u := &S3Uploader{client: &fakePutter{err: errors.New("access denied")}, bucket: "b"}

	_, err := u.Upload(context.Background(), "x.csv", nil)
	assert.ErrorContains(t, err, "access denied")
}

func TestNewS3Uploader_RequiresBucket(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}

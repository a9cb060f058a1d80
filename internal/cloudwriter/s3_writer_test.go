package cloudwriter

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

type fakeS3 struct {
	calls  int
	bucket string
	key    string
	body   []byte
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls++
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3WriterUploadsOnClose(t *testing.T) {
	fake := &fakeS3{}
	w, err := NewS3WriterFactory(fake).NewWriter(context.Background(), "menus", "exports/r1.parquet")
	require.NoError(t, err)

	_, err = w.Write([]byte("PAR1"))
	require.NoError(t, err)
	assert.Equal(t, 0, fake.calls)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, "menus", fake.bucket)
	assert.Equal(t, "exports/r1.parquet", fake.key)
	assert.Equal(t, []byte("PAR1"), fake.body)

	_, err = w.Write([]byte("more"))
	assert.Error(t, err)
}

func TestS3WriterErrors(t *testing.T) {
	_, err := NewS3WriterFactory(&fakeS3{}).NewWriter(context.Background(), "", "x")
	assert.Error(t, err)

	boom := errors.New("boom")
	w, err := NewS3WriterFactory(&fakeS3{err: boom}).NewWriter(context.Background(), "b", "x")
	require.NoError(t, err)
	assert.ErrorIs(t, w.Close(), boom)
}

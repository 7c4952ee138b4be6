package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	puts    []string
	deletes []string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.puts = append(f.puts, aws.ToString(in.Key))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestNewWithoutCredentials(t *testing.T) {
	c, err := New("", "eu", "", "", "bucket", "")
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = New("https://s3.example.com", "eu", "ak", "sk", "", "")
	assert.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("Data Sheet (v2).PDF")
	assert.True(t, strings.HasPrefix(key, "products/"))
	assert.True(t, strings.HasSuffix(key, "/data-sheet-v2.pdf"), key)

	assert.True(t, strings.HasSuffix(ObjectKey("!!!.png"), "/file.png"))
	assert.NotEqual(t, ObjectKey("a.png"), ObjectKey("a.png"))
}

func TestFileURLAndExtractKey(t *testing.T) {
	c := &Client{endpoint: "https://s3.example.com", bucket: "media"}
	u := c.FileURL("products/x/a.png")
	assert.Equal(t, "https://s3.example.com/media/products/x/a.png", u)

	key, ok := c.ExtractKey(u)
	require.True(t, ok)
	assert.Equal(t, "products/x/a.png", key)

	_, ok = c.ExtractKey("https://elsewhere.example.com/media/a.png")
	assert.False(t, ok)
	_, ok = c.ExtractKey("https://s3.example.com/media/")
	assert.False(t, ok)

	cdn := &Client{endpoint: "https://s3.example.com", bucket: "media", publicURL: "https://cdn.example.com"}
	assert.Equal(t, "https://cdn.example.com/k.png", cdn.FileURL("k.png"))
	key, ok = cdn.ExtractKey("https://cdn.example.com/k.png")
	require.True(t, ok)
	assert.Equal(t, "k.png", key)
}

func TestUploadThenDelete(t *testing.T) {
	fake := &fakeS3{}
	c := &Client{s3: fake, endpoint: "https://s3.example.com", bucket: "media"}

	u, err := c.Upload(context.Background(), "photo.jpg", "image/jpeg", bytes.NewReader([]byte("x")), 1)
	require.NoError(t, err)
	require.Len(t, fake.puts, 1)
	assert.Equal(t, c.FileURL(fake.puts[0]), u)

	require.NoError(t, c.DeleteUpload(context.Background(), u))
	assert.Equal(t, fake.puts, fake.deletes)
}

func TestDeleteUploadErrors(t *testing.T) {
	fake := &fakeS3{}
	c := &Client{s3: fake, endpoint: "https://s3.example.com", bucket: "media"}

	assert.Error(t, c.DeleteUpload(context.Background(), "https://other/a.png"))
	assert.Empty(t, fake.deletes)

	fake.err = errors.New("denied")
	err := c.DeleteUpload(context.Background(), "https://s3.example.com/media/a.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}

package objectstore

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAbsoluteURL(t *testing.T) {
	assert.True(t, IsAbsoluteURL("https://cdn.example.com/a.jpg"))
	assert.True(t, IsAbsoluteURL("gs://bucket/a.glb"))
	assert.True(t, IsAbsoluteURL("data:image/png;base64,AAAA"))
	assert.False(t, IsAbsoluteURL("restaurants/r1/a.jpg"))
	assert.False(t, IsAbsoluteURL("/a.jpg"))
	assert.False(t, IsAbsoluteURL(""))
}

func TestPublicResolver(t *testing.T) {
	ctx := context.Background()
	r := PublicResolver{BaseURL: "https://cdn.example.com/media/"}

	got, err := r.ResolveURL(ctx, "restaurants/r1/paneer tikka.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/media/restaurants/r1/paneer%20tikka.jpg", got)

	got, err = r.ResolveURL(ctx, "/models/dal.glb")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/media/models/dal.glb", got)

	got, err = r.ResolveURL(ctx, "https://elsewhere.com/x.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://elsewhere.com/x.jpg", got)

	got, err = PublicResolver{}.ResolveURL(ctx, "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "a.jpg", got)
}

func TestS3ResolverPresigns(t *testing.T) {
	client := s3.New(s3.Options{
		Region: "us-east-1",
		Credentials: aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: "AKID", SecretAccessKey: "SECRET"}, nil
		}),
	})
	r := NewS3Resolver(client, "menu-media", 10*time.Minute)

	got, err := r.ResolveURL(context.Background(), "restaurants/r1/dal.glb")
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Contains(t, u.Host, "menu-media")
	assert.Equal(t, "/restaurants/r1/dal.glb", u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))

	abs := "https://cdn.example.com/dal.glb"
	got, err = r.ResolveURL(context.Background(), abs)
	require.NoError(t, err)
	assert.Equal(t, abs, got)
}

package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	key := GenerateKey("videos", "Holiday Clip.MP4")

	assert.True(t, strings.HasPrefix(key, "videos/"))
	assert.True(t, strings.HasSuffix(key, ".mp4"))
	assert.NotEqual(t, key, GenerateKey("videos", "Holiday Clip.MP4"))
}

func TestPublicURL_KeyFromURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{"cdn", S3Config{Bucket: "media", CDNURL: "https://cdn.example.com/"}, "https://cdn.example.com/a/b.png"},
		{"path style", S3Config{Bucket: "media", Endpoint: "http://minio:9000", ForcePathStyle: true}, "http://minio:9000/media/a/b.png"},
		{"aws", S3Config{Bucket: "media", Region: "us-east-1"}, "https://media.s3.amazonaws.com/a/b.png"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewS3Client(tc.cfg)
			require.NoError(t, err)

			url := c.PublicURL("a/b.png")
			assert.Equal(t, tc.want, url)
			assert.Equal(t, "a/b.png", c.KeyFromURL(url))
		})
	}
}

func TestKeyFromURL_Foreign(t *testing.T) {
	c, err := NewS3Client(S3Config{Bucket: "media", CDNURL: "https://cdn.example.com"})
	require.NoError(t, err)

	assert.Equal(t, "", c.KeyFromURL("https://elsewhere.example.com/a.png"))
}

func TestNewS3Client_RequiresBucket(t *testing.T) {
	_, err := NewS3Client(S3Config{})
	assert.Error(t, err)
}

func TestObjectKey_BasePath(t *testing.T) {
	c, err := NewS3Client(S3Config{Bucket: "media", BasePath: "/prod/", CDNURL: "https://cdn.example.com"})
	require.NoError(t, err)

	assert.Equal(t, "prod/avatars/a.png", c.objectKey("avatars/a.png"))
	assert.Equal(t, "https://cdn.example.com/prod/avatars/a.png", c.PublicURL(c.objectKey("avatars/a.png")))
}

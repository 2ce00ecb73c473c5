package catalog

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opdsapi/internal/opds"
)

func TestManifestBuilder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	provider := NewMockProvider(ctrl)
	manifests := NewManifestBuilder(provider)

	publication := &opds.Publication{
		Metadata: opds.Metadata{
			Type:     "http://schema.org/Audiobook",
			Title:    "Pride and Prejudice",
			Duration: 8130,
		},
		Images: []opds.Link{
			{Href: "https://archive.org/download/pride/__ia_thumb.jpg", Rel: "cover"},
		},
	}

	var captured SearchParams
	provider.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params SearchParams) ([]*opds.Publication, int, error) {
			captured = params
			return []*opds.Publication{publication}, 1, nil
		})
	provider.EXPECT().Files(gomock.Any(), "pride", "*mp3").Return([]RemoteFile{
		{
			URL:    "https://archive.org/download/pride/ch01.mp3",
			Title:  "Chapter 01",
			Format: "64Kbps MP3",
			Length: 648.13,
		},
		{
			URL:    "https://archive.org/download/pride/ch01_vbr.mp3",
			Title:  "Chapter 01",
			Format: "VBR MP3",
			Length: 648.13,
		},
		{
			URL:    "https://archive.org/download/pride/ch02.mp3",
			Title:  "Chapter 02",
			Format: "64Kbps MP3",
			Length: 701.5,
		},
	}, nil)

	manifest, err := manifests.Build(context.Background(), "pride", "203.0.113.9")
	require.NoError(t, err)

	assert.Equal(t, "(identifier:pride)", captured.Query)
	assert.Equal(t, "203.0.113.9", captured.ClientHint)

	assert.Equal(t, "Pride and Prejudice", manifest.Metadata.Title)
	assert.Equal(t, publication.Images, manifest.Links)

	// Only the 64Kbps encoding enters the reading order, in file order.
	require.Len(t, manifest.ReadingOrder, 2)
	assert.Equal(t, "https://archive.org/download/pride/ch01.mp3", manifest.ReadingOrder[0].Href)
	assert.Equal(t, "audio/mpeg", manifest.ReadingOrder[0].Type)
	assert.Equal(t, "Chapter 01", manifest.ReadingOrder[0].Title)
	assert.Equal(t, 648.13, manifest.ReadingOrder[0].Duration)
	assert.Equal(t, "Chapter 02", manifest.ReadingOrder[1].Title)
}

func TestManifestBuilder_UnknownIdentifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	provider := NewMockProvider(ctrl)
	manifests := NewManifestBuilder(provider)

	provider.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, 0, nil)

	_, err := manifests.Build(context.Background(), "no-such-item", "")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "audiobook", notFound.Kind)
}

package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_UnknownType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	factory := NewFactory(newTestStore(t), NewMockProvider(ctrl))

	_, err := factory.BuildCatalog(context.Background(), &Request{Type: "rss"})
	var badRequest *BadRequestError
	require.ErrorAs(t, err, &badRequest)
}

func TestFactory_MissingTypeFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	factory := NewFactory(newTestStore(t), NewMockProvider(ctrl))

	tests := []struct {
		name string
		req  *Request
		want string
	}{
		{
			name: "navigation without nav_key",
			req:  &Request{Type: TypeNavigation},
			want: "navigation catalog requires 'nav_key'",
		},
		{
			name: "browse without section",
			req:  &Request{Type: TypeBrowse, Item: "adventure"},
			want: "browse catalog requires 'section' and 'item'",
		},
		{
			name: "browse without item",
			req:  &Request{Type: TypeBrowse, Section: "categories"},
			want: "browse catalog requires 'section' and 'item'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := factory.BuildCatalog(context.Background(), tt.req)
			var badRequest *BadRequestError
			require.ErrorAs(t, err, &badRequest)
			assert.Equal(t, tt.want, badRequest.Message)
		})
	}
}

func TestFactory_PageNormalization(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	provider := NewMockProvider(ctrl)
	factory := NewFactory(newTestStore(t), provider)

	provider.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, 0, nil)

	doc, err := factory.BuildCatalog(context.Background(), &Request{
		Type: TypeBrowse, Section: "categories", Item: "adventure", Page: -3,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Metadata.CurrentPage)
}

func TestFactory_ProviderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	provider := NewMockProvider(ctrl)
	factory := NewFactory(newTestStore(t), provider)

	provider.EXPECT().Search(gomock.Any(), gomock.Any()).
		Return(nil, 0, errors.New("engine down"))

	_, err := factory.BuildCatalog(context.Background(), &Request{
		Type: TypeBrowse, Section: "categories", Item: "adventure",
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "engine down")
}

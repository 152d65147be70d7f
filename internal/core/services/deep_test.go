package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
)

func TestDeep_WalksToAnnotationBody(t *testing.T) {
	v := seededVault(t)

	body := v.Deep(domain.Ref(domain.TypeManifest, manifestURI)).
		Field("items").First().
		Field("items").First().
		Field("items").First().
		Field("body").Entity()

	require.NotNil(t, body)
	assert.Equal(t, imageURI, body.ID)
	assert.Equal(t, "image/jpeg", body.Extensions["format"])
}

func TestDeep_ShortCircuitsOnMiss(t *testing.T) {
	v := seededVault(t)

	d := v.Deep(domain.Ref(domain.TypeManifest, manifestURI)).Field("nope").First().Field("items")
	assert.False(t, d.Ok())
	assert.Nil(t, d.Entity())
	assert.Empty(t, d.Entities())
	assert.Zero(t, d.Len())

	missing := v.Deep(domain.Reference{ID: "https://example.org/nope"}).Field("items").At(3)
	assert.Nil(t, missing.Entity())
}

func TestDeep_ListsAndValues(t *testing.T) {
	v := seededVault(t)
	m := v.Deep(domain.Ref(domain.TypeManifest, manifestURI))

	items := m.Field("items")
	assert.Equal(t, 2, items.Len())
	assert.Equal(t, []string{canvas1, canvas2}, ids(items.Refs()))
	require.Len(t, items.Entities(), 2)
	assert.Equal(t, canvas2, items.At(1).Entity().ID)
	assert.Nil(t, items.At(2).Entity())
	assert.Nil(t, items.At(-1).Entity())

	motivation, ok := items.First().Field("items").First().Field("items").First().Field("motivation").Value()
	assert.True(t, ok)
	assert.Equal(t, "painting", motivation)

	// Field on a list reads from its first entity.
	assert.Equal(t, 1, items.Field("items").Len())
}

func TestDeep_CapturesState(t *testing.T) {
	v := seededVault(t)
	d := v.Deep(domain.Ref(domain.TypeManifest, manifestURI)).Field("items")

	v.RemoveReference(domain.Ref(domain.TypeManifest, manifestURI), "items", domain.Ref(domain.TypeCanvas, canvas1), nil)

	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 1, v.Deep(domain.Ref(domain.TypeManifest, manifestURI)).Field("items").Len())
}

func TestDeepWith_Stubs(t *testing.T) {
	v := newTestVault(nil)
	m := domain.NewEntity(domain.TypeManifest, "m")
	m.Refs["items"] = []domain.Reference{domain.Ref(domain.TypeCanvas, "unloaded")}
	v.Dispatch(domain.ImportEntities{Entities: domain.Entities{domain.TypeManifest: {"m": m}}})

	stub := v.DeepWith(domain.Ref(domain.TypeManifest, "m"), driving.GetOptions{SkipSelfReturn: boolPtr(false)}).
		Field("items").First().Entity()
	require.NotNil(t, stub)
	assert.True(t, stub.Unresolved)
	assert.Equal(t, domain.TypeCanvas, stub.Type)
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
)

func TestGet_ByReference(t *testing.T) {
	v := seededVault(t)

	m := v.Get(domain.Ref(domain.TypeManifest, manifestURI), driving.GetOptions{})
	require.NotNil(t, m)
	assert.Equal(t, []string{canvas1, canvas2}, itemIDs(m))

	assert.Nil(t, v.Get(domain.Ref(domain.TypeCanvas, manifestURI), driving.GetOptions{}),
		"ids are unique within their partition only")
}

func TestGet_BareIDUsesMapping(t *testing.T) {
	v := seededVault(t)

	c := v.GetByID(canvas2, driving.GetOptions{})
	require.NotNil(t, c)
	assert.Equal(t, domain.TypeCanvas, c.Type)

	image := v.GetByID(imageURI, driving.GetOptions{})
	require.NotNil(t, image)
	assert.Equal(t, domain.TypeContentResource, image.Type)
	assert.Equal(t, "Image", image.DeclaredType())
}

func TestGet_DeclaredTypeIsPartitioned(t *testing.T) {
	v := seededVault(t)
	image := v.Get(domain.Reference{ID: imageURI, Type: "Image"}, driving.GetOptions{})
	require.NotNil(t, image)
	assert.Equal(t, imageURI, image.ID)
}

func TestGet_Misses(t *testing.T) {
	v := seededVault(t)

	assert.Nil(t, v.GetByID("https://example.org/nope", driving.GetOptions{}))
	assert.Nil(t, v.GetByID("https://example.org/nope", driving.GetOptions{SkipSelfReturn: boolPtr(true)}))

	stub := v.GetByID("https://example.org/nope", driving.GetOptions{SkipSelfReturn: boolPtr(false)})
	require.NotNil(t, stub)
	assert.True(t, stub.Unresolved)
	assert.Equal(t, domain.TypeUnknown, stub.Type)
	assert.Equal(t, "https://example.org/nope", stub.ID)

	typed := v.Get(domain.Ref(domain.TypeCanvas, "https://example.org/c9"), driving.GetOptions{SkipSelfReturn: boolPtr(false)})
	require.NotNil(t, typed)
	assert.Equal(t, domain.TypeCanvas, typed.Type)
	assert.True(t, typed.Unresolved)
}

func TestGet_SpecificResource(t *testing.T) {
	v := seededVault(t)
	sr := domain.SpecificResource(domain.Ref(domain.TypeCanvas, canvas1), map[string]any{"type": "FragmentSelector"})

	c := v.Get(sr, driving.GetOptions{})
	require.NotNil(t, c)
	assert.Equal(t, canvas1, c.ID)
	assert.Equal(t, domain.TypeCanvas, c.Type)

	wrapper := v.Get(sr, driving.GetOptions{PreserveSpecificResources: true})
	require.NotNil(t, wrapper)
	assert.Equal(t, domain.TypeSpecificResource, wrapper.Type)
	source, ok := wrapper.RefList("source")
	require.True(t, ok)
	assert.Equal(t, []string{canvas1}, ids(source))
	assert.NotNil(t, wrapper.Extensions["selector"])
}

func TestGetAll(t *testing.T) {
	v := seededVault(t)
	got := v.GetAll([]domain.Reference{
		domain.Ref(domain.TypeCanvas, canvas1),
		{ID: "https://example.org/nope"},
		domain.Ref(domain.TypeCanvas, canvas2),
	}, driving.GetOptions{})

	require.Len(t, got, 3)
	assert.Equal(t, canvas1, got[0].ID)
	assert.Nil(t, got[1])
	assert.Equal(t, canvas2, got[2].ID)
}

func TestGet_FollowsRequestMismatch(t *testing.T) {
	v := newTestVault(nil)
	alias := "https://example.org/alias"

	m, err := v.LoadSync(alias, []byte(manifestJSON), driving.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, manifestURI, m.ID)

	record, ok := v.RequestStatus(alias)
	require.True(t, ok)
	assert.True(t, record.URIMismatch)
	assert.Equal(t, manifestURI, record.ResourceURI)

	got := v.GetByID(alias, driving.GetOptions{})
	require.NotNil(t, got)
	assert.Equal(t, manifestURI, got.ID)
}

func TestGet_RedirectLoopTerminates(t *testing.T) {
	v := newTestVault(nil)
	v.DispatchBatch(
		domain.RequestMismatch{RequestURI: "a", ActualID: "b"},
		domain.RequestMismatch{RequestURI: "b", ActualID: "a"},
	)

	assert.Nil(t, v.GetByID("a", driving.GetOptions{}))
}

func TestGet_Framing(t *testing.T) {
	v := newTestVault(nil)
	c := domain.NewEntity(domain.TypeCollection, "c")
	c.Refs["items"] = []domain.Reference{domain.Ref(domain.TypeManifest, "m1"), domain.Ref(domain.TypeManifest, "m2")}
	page := domain.NewEntity(domain.TypeCollection, "c")
	page.Refs["items"] = []domain.Reference{domain.Ref(domain.TypeManifest, "m2")}

	v.DispatchBatch(
		domain.ImportEntities{Entities: domain.Entities{domain.TypeCollection: {"c": c}}},
		domain.ImportEntities{Entities: domain.Entities{domain.TypeCollection: {"c": page}}, Context: "p2"},
	)
	ref := domain.Ref(domain.TypeCollection, "c")

	assert.Equal(t, []string{"m1", "m2"}, itemIDs(v.Get(ref, driving.GetOptions{})))
	assert.Equal(t, []string{"m2"}, itemIDs(v.Get(ref, driving.GetOptions{Parent: "p2"})))
	assert.Equal(t, []string{"m1", "m2"}, itemIDs(v.Get(ref, driving.GetOptions{Parent: "other"})))

	inherited := ref
	inherited.PartOf = "p2"
	assert.Equal(t, []string{"m2"}, itemIDs(v.Get(inherited, driving.GetOptions{})))
}

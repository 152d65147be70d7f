package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
)

const manifest = `{
  "@context": "http://iiif.io/api/presentation/3/context.json",
  "id": "https://example.org/manifest",
  "type": "Manifest",
  "label": {"en": ["Book"]},
  "metadata": [{"label": {"en": ["Author"]}, "value": {"none": ["Anon"]}}],
  "items": [
    {
      "id": "https://example.org/canvas/1",
      "type": "Canvas",
      "height": 1000,
      "width": 800,
      "items": [
        {
          "id": "https://example.org/page/1",
          "type": "AnnotationPage",
          "items": [
            {
              "id": "https://example.org/anno/1",
              "type": "Annotation",
              "motivation": "painting",
              "body": {
                "id": "https://example.org/image/1.jpg",
                "type": "Image",
                "format": "image/jpeg",
                "service": [{"id": "https://example.org/iiif/1", "type": "ImageService3", "profile": "level1"}]
              },
              "target": "https://example.org/canvas/1"
            }
          ]
        }
      ]
    },
    {"id": "https://example.org/canvas/2", "type": "Canvas", "label": "Two"}
  ],
  "structures": [
    {
      "id": "https://example.org/range/1",
      "type": "Range",
      "items": [
        {"id": "https://example.org/canvas/1", "type": "Canvas"},
        {
          "type": "SpecificResource",
          "source": {"id": "https://example.org/canvas/2", "type": "Canvas"},
          "selector": {"type": "FragmentSelector", "value": "xywh=0,0,10,10"}
        }
      ]
    }
  ]
}`

func fixedMint() func() string {
	n := 0
	return func() string {
		n++
		return BlankPrefix + string(rune('a'+n-1))
	}
}

func TestNew(t *testing.T) {
	n := New()
	require.NotNil(t, n)
	assert.True(t, len(n.mint()) > len(BlankPrefix))
}

func TestNormalise_Manifest(t *testing.T) {
	result, err := New().Normalise("https://example.org/manifest", []byte(manifest))
	require.NoError(t, err)

	assert.Equal(t, domain.Ref(domain.TypeManifest, "https://example.org/manifest"), result.Root)

	m := result.Entities[domain.TypeManifest]["https://example.org/manifest"]
	require.NotNil(t, m)
	assert.Equal(t, []string{"Book"}, m.Label["en"])
	require.Len(t, m.Metadata, 1)
	assert.Equal(t, []string{"Anon"}, m.Metadata[0].Value["none"])
	assert.Equal(t, "http://iiif.io/api/presentation/3/context.json", m.Extensions["@context"])

	items, ok := m.RefList("items")
	require.True(t, ok)
	assert.Equal(t, []domain.Reference{
		domain.Ref(domain.TypeCanvas, "https://example.org/canvas/1"),
		domain.Ref(domain.TypeCanvas, "https://example.org/canvas/2"),
	}, items)

	canvas := result.Entities[domain.TypeCanvas]["https://example.org/canvas/1"]
	require.NotNil(t, canvas)
	assert.Equal(t, 800, canvas.Int("width"))

	anno := result.Entities[domain.TypeAnnotation]["https://example.org/anno/1"]
	require.NotNil(t, anno)
	body, _ := anno.RefList("body")
	assert.Equal(t, []domain.Reference{domain.Ref(domain.TypeContentResource, "https://example.org/image/1.jpg")}, body)
	target, _ := anno.RefList("target")
	assert.Equal(t, []domain.Reference{{ID: "https://example.org/canvas/1"}}, target)

	image := result.Entities[domain.TypeContentResource]["https://example.org/image/1.jpg"]
	require.NotNil(t, image)
	assert.Equal(t, "Image", image.Extensions["type"])

	service := result.Entities[domain.TypeService]["https://example.org/iiif/1"]
	require.NotNil(t, service)
	assert.Equal(t, "level1", service.Extensions["profile"])
}

func TestNormalise_ReferenceOnlyNodesDoNotOverwrite(t *testing.T) {
	result, err := New().Normalise("https://example.org/manifest", []byte(manifest))
	require.NoError(t, err)

	canvas := result.Entities[domain.TypeCanvas]["https://example.org/canvas/1"]
	require.NotNil(t, canvas)
	_, ok := canvas.RefList("items")
	assert.True(t, ok, "range pointer must not replace the full canvas")

	two := result.Entities[domain.TypeCanvas]["https://example.org/canvas/2"]
	require.NotNil(t, two)
	assert.Equal(t, []string{"Two"}, two.Label["none"])
}

func TestNormalise_SpecificResource(t *testing.T) {
	result, err := New().Normalise("https://example.org/manifest", []byte(manifest))
	require.NoError(t, err)

	r := result.Entities[domain.TypeRange]["https://example.org/range/1"]
	require.NotNil(t, r)
	items, _ := r.RefList("items")
	require.Len(t, items, 2)

	sr := items[1]
	assert.True(t, sr.IsSpecificResource())
	assert.Equal(t, "https://example.org/canvas/2", sr.MatchID())
	assert.Equal(t, domain.TypeCanvas, sr.Unwrap().Type)
	assert.NotNil(t, sr.Selector)
	assert.Empty(t, result.Entities[domain.TypeSpecificResource])
}

func TestNormalise_BlankNodes(t *testing.T) {
	n := &Normaliser{mint: fixedMint()}
	body := `{"id": "https://example.org/c", "type": "Canvas",
	  "annotations": [{"type": "AnnotationPage", "items": []}]}`

	result, err := n.Normalise("https://example.org/c", []byte(body))
	require.NoError(t, err)

	c := result.Entities[domain.TypeCanvas]["https://example.org/c"]
	require.NotNil(t, c)
	pages, _ := c.RefList("annotations")
	require.Len(t, pages, 1)
	assert.Equal(t, BlankPrefix+"a", pages[0].ID)
	assert.Contains(t, result.Entities[domain.TypeAnnotationPage], BlankPrefix+"a")
}

func TestNormalise_RootWithoutID(t *testing.T) {
	result, err := New().Normalise("https://example.org/coll", []byte(`{"type": "Collection", "items": []}`))
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/coll", result.Root.ID)
	assert.Equal(t, domain.TypeCollection, result.Root.Type)
}

func TestNormalise_Version2Aliases(t *testing.T) {
	body := `{"@id": "https://example.org/m2", "@type": "sc:Manifest", "label": "Old"}`

	result, err := New().Normalise("https://example.org/m2", []byte(body))
	require.NoError(t, err)

	assert.Equal(t, domain.Ref(domain.TypeManifest, "https://example.org/m2"), result.Root)
	m := result.Entities[domain.TypeManifest]["https://example.org/m2"]
	require.NotNil(t, m)
	assert.Equal(t, []string{"Old"}, m.Label["none"])
}

func TestNormalise_CollectionPage(t *testing.T) {
	body := `{"id": "https://example.org/c?page=1", "type": "CollectionPage",
	  "items": [{"id": "https://example.org/m/1", "type": "Manifest"}],
	  "next": {"id": "https://example.org/c?page=2", "type": "CollectionPage"}}`

	result, err := New().Normalise("https://example.org/c?page=1", []byte(body))
	require.NoError(t, err)

	page := result.Entities[domain.TypeCollection]["https://example.org/c?page=1"]
	require.NotNil(t, page)
	assert.Equal(t, "https://example.org/c?page=2", page.LinkID("next"))
}

func TestNormalise_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"not an object", `[]`},
		{"null", `null`},
		{"specific resource root", `{"type": "SpecificResource", "source": "https://example.org/x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Normalise("https://example.org/x", []byte(tt.body))
			assert.Error(t, err)
		})
	}
}

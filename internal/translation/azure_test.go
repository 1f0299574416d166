package translation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAzureTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *AzureTranslator) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, NewAzureTranslator(server.URL, "test-key", "test-region")
}

func TestAzureTranslator_Translate(t *testing.T) {
	var gotRequest *http.Request
	var gotBody []azureRequestItem
	_, translator := newAzureTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotRequest = r
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"detectedLanguage":{"language":"en","score":0.98},"translations":[{"text":"Hola mundo","to":"es"}]}]`))
	})

	result, err := translator.Translate(context.Background(), "Hello world", "es", "")
	require.NoError(t, err)

	assert.Equal(t, "Hola mundo", result.TranslatedText)
	assert.Equal(t, "en", result.DetectedLanguage)

	assert.Equal(t, "/translate", gotRequest.URL.Path)
	assert.Equal(t, "3.0", gotRequest.URL.Query().Get("api-version"))
	assert.Equal(t, "es", gotRequest.URL.Query().Get("to"))
	assert.Empty(t, gotRequest.URL.Query().Get("from"), "no from parameter when auto-detecting")
	assert.Equal(t, "test-key", gotRequest.Header.Get("Ocp-Apim-Subscription-Key"))
	assert.Equal(t, "test-region", gotRequest.Header.Get("Ocp-Apim-Subscription-Region"))
	require.Len(t, gotBody, 1)
	assert.Equal(t, "Hello world", gotBody[0].Text)
}

func TestAzureTranslator_Translate_DeclaredSource(t *testing.T) {
	var gotFrom string
	_, translator := newAzureTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotFrom = r.URL.Query().Get("from")
		_, _ = w.Write([]byte(`[{"translations":[{"text":"Bonjour","to":"fr"}]}]`))
	})

	result, err := translator.Translate(context.Background(), "Hello", "fr", "en")
	require.NoError(t, err)
	assert.Equal(t, "en", gotFrom)
	assert.Equal(t, "Bonjour", result.TranslatedText)
	assert.Empty(t, result.DetectedLanguage, "no detection reported when the source was declared")
}

func TestAzureTranslator_Translate_ErrorStatus(t *testing.T) {
	_, translator := newAzureTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401000,"message":"invalid key"}}`))
	})

	_, err := translator.Translate(context.Background(), "Hello", "es", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "401")
}

func TestAzureTranslator_BatchTranslate(t *testing.T) {
	_, translator := newAzureTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body []azureRequestItem
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		items := make([]map[string]any, len(body))
		for i, item := range body {
			items[i] = map[string]any{
				"detectedLanguage": map[string]any{"language": "en", "score": 1.0},
				"translations":     []map[string]string{{"text": "t:" + item.Text, "to": "de"}},
			}
		}
		require.NoError(t, json.NewEncoder(w).Encode(items))
	})

	results, err := translator.BatchTranslate(context.Background(), []string{"one", "two", "three"}, "de", "")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "t:one", results[0].TranslatedText)
	assert.Equal(t, "t:three", results[2].TranslatedText)
}

func TestAzureTranslator_BatchTranslate_Empty(t *testing.T) {
	_, translator := newAzureTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty batch")
	})

	results, err := translator.BatchTranslate(context.Background(), nil, "de", "")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAzureTranslator_BatchTranslate_CountMismatch(t *testing.T) {
	_, translator := newAzureTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"translations":[{"text":"only one","to":"de"}]}]`))
	})

	_, err := translator.BatchTranslate(context.Background(), []string{"one", "two"}, "de", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoTranslation)
}

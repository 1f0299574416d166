package translation

// Translation methods reported in a Result.
const (
	// MethodAzure means the standard Azure Translator output was used.
	MethodAzure = "azure"
	// MethodLLM means the LLM-enhanced translation was used.
	MethodLLM = "llm"
	// MethodSkipped means the text was already in the target language.
	MethodSkipped = "skipped"
	// MethodFailed means all attempts failed and the original text was passed through.
	MethodFailed = "failed"
)

// Result is the outcome of a single translation request.
//
// When Success is false, Translation always carries the original input text so
// callers can substitute it in place without losing content.
type Result struct {
	Success          bool   `json:"success"`
	Translation      string `json:"translation"`
	SourceLanguage   string `json:"source_language,omitempty"`
	TargetLanguage   string `json:"target_language"`
	Method           string `json:"method"`
	// AzureTranslation keeps the standard translation for comparison when the
	// LLM-enhanced result was used instead.
	AzureTranslation string `json:"azure_translation,omitempty"`
	Error            string `json:"error,omitempty"`
}

// Skipped reports whether the text was left untouched because it was already
// in the target language.
func (r *Result) Skipped() bool {
	return r.Method == MethodSkipped
}

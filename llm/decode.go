package llm

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/DipakKumarChauhan/foodie-eyes/logger"
)

// decodeJSON parses model output into v, tolerating markdown code fences
// around the JSON. The model boundary is untrusted: callers must treat a
// returned error as "use the typed fallback", never propagate raw text.
func decodeJSON(raw string, v any) error {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		logger.Error("LLM JSON parse failed", zap.String("raw", raw), zap.Error(err))
		return err
	}
	return nil
}

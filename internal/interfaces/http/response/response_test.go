package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rag-assistant/backend/internal/domain/conversation"
	"github.com/rag-assistant/backend/internal/domain/document"
	"github.com/rag-assistant/backend/internal/domain/retrieval"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err      error
		httpCode int
		errCode  int
	}{
		{conversation.ErrEmptyQuestion, http.StatusBadRequest, CodeValidation},
		{fmt.Errorf("%w: 0", retrieval.ErrInvalidTopK), http.StatusBadRequest, CodeValidation},
		{document.ErrEmptyFilename, http.StatusBadRequest, CodeValidation},
		{fmt.Errorf("%w: abc", conversation.ErrSessionNotFound), http.StatusNotFound, CodeSessionNotFound},
		{document.ErrDocumentNotFound, http.StatusNotFound, CodeDocumentNotFound},
		{fmt.Errorf("%w: disk", conversation.ErrPersistence), http.StatusInternalServerError, CodeProcessing},
		{errors.New("anything"), http.StatusInternalServerError, CodeProcessing},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			httpCode, errCode, _ := Classify(tt.err)
			assert.Equal(t, tt.httpCode, httpCode)
			assert.Equal(t, tt.errCode, errCode)
		})
	}
}

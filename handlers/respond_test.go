package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codezana/generator-system-api/models"
	"github.com/codezana/generator-system-api/utils"
	"github.com/gin-gonic/gin"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"dangling billable", &models.DanglingReferenceError{Kind: models.BillableTypeExpense}, http.StatusNotFound},
		{"wrapped dangling billable", fmt.Errorf("amend: %w", &models.DanglingReferenceError{Kind: models.BillableTypeAmpere}), http.StatusNotFound},
		{"overpayment", &models.OverpaymentError{Kind: models.BillableTypeAmpere}, http.StatusUnprocessableEntity},
		{"no generators in scope", models.ErrNoGenerators, http.StatusNotFound},
		{"record not found", utils.ErrorRecordNotFound, http.StatusNotFound},
		{"unauthorized", utils.ErrorUnauthorized, http.StatusUnauthorized},
		{"forbidden", utils.ErrorForbidden, http.StatusForbidden},
		{"plain validation message", errors.New("paid amount must be at least 1"), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.want {
				t.Errorf("statusForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestAbortWithErrorRecordsError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/debts", nil)

	abortWithError(c, &models.DanglingReferenceError{Kind: models.BillableTypeGeneratorExpense})

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if len(c.Errors) != 1 {
		t.Errorf("recorded %d context errors, want 1", len(c.Errors))
	}
}

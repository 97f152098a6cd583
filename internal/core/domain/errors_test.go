package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"validation", Validationf("title is required"), ErrValidation},
		{"not_found", NotFoundf("book %d not found", 7), ErrNotFound},
		{"conflict", Conflictf("book %d already borrowed", 7), ErrConflict},
		{"storage", Storagef(errors.New("disk full"), "save snapshot"), ErrStorage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.kind))
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrorMessagesCarryDetail(t *testing.T) {
	err := NotFoundf("book %d not found", 7)
	assert.Contains(t, err.Error(), "book 7 not found")

	err = Storagef(errors.New("disk full"), "save snapshot")
	assert.Contains(t, err.Error(), "save snapshot")
	assert.Contains(t, err.Error(), "disk full")
}

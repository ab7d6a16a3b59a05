package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jengzang/paddock-backend-go/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	testCases := []struct {
		err  error
		code int
	}{
		{session.ErrFeatureNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: x", session.ErrFeatureNotFound), http.StatusNotFound},
		{session.ErrUnknownState, http.StatusBadRequest},
		{session.ErrEmptyName, http.StatusBadRequest},
		{session.ErrInvalidTransition, http.StatusConflict},
		{session.ErrPaddockOutsideFarm, http.StatusConflict},
		{session.ErrTooFewVertices, http.StatusConflict},
		{session.ErrNotAFarm, http.StatusConflict},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.code, StatusFor(tc.err))
		})
	}
}

package reminder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateGrantedDoesNotRequest(t *testing.T) {
	perms := &fakePermissions{status: StatusGranted}
	gate := NewGate(perms)

	for i := 0; i < 3; i++ {
		assert.NoError(t, gate.Ensure(context.Background()))
	}
	assert.Zero(t, perms.requestCalls)
}

func TestGateRequestsOnce(t *testing.T) {
	tests := []struct {
		name    string
		initial Status
		result  Status
		wantErr bool
	}{
		{"undetermined then granted", StatusUndetermined, StatusGranted, false},
		{"undetermined then denied", StatusUndetermined, StatusDenied, true},
		{"denied stays denied", StatusDenied, StatusDenied, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perms := &fakePermissions{status: tt.initial, requestTo: tt.result}
			err := NewGate(perms).Ensure(context.Background())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPermissionDenied)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, 1, perms.requestCalls)
		})
	}
}

package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"household-help-server/models"
)

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
		valid bool
	}{
		{input: "9876543210", want: "+919876543210", valid: true},
		{input: "+91 98765-43210", want: "+919876543210", valid: true},
		{input: "919876543210", want: "+919876543210", valid: true},
		{input: "09876543210", want: "+919876543210", valid: true},
		{input: "1234567890", want: "+911234567890", valid: false},
		{input: "12345", want: "+9112345", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := FormatPhoneNumber(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, ValidatePhoneNumber(got))
		})
	}
}

func TestEmailHelpers(t *testing.T) {
	assert.Equal(t, "asha@example.com", NormalizeEmail("  Asha@Example.COM "))
	assert.True(t, ValidateEmail("asha@example.com"))
	assert.False(t, ValidateEmail("Asha <asha@example.com>"))
	assert.False(t, ValidateEmail("asha"))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("secret1", hash))
	assert.False(t, CheckPasswordHash("secret2", hash))
}

func TestServiceCategoryBinding(t *testing.T) {
	RegisterValidators()
	RegisterValidators() // idempotent

	valid := models.BookingRequest{WorkerID: 1, ServiceCategory: "pet_care", StartDate: "2024-06-01", StartTime: "09:00", Address: "x"}
	require.NoError(t, binding.Validator.ValidateStruct(&valid))

	invalid := valid
	invalid.ServiceCategory = "gardening"
	err := binding.Validator.ValidateStruct(&invalid)
	require.Error(t, err)
	assert.Equal(t, []string{"service_category is not a known service category"}, ParseErrors(err))

	profile := models.WorkerProfileRequest{
		Name: "A", Phone: "1", Address: "a", City: "c", Pincode: "p", GovernmentID: "g",
		Categories: []string{"cooking", "plumbing"},
	}
	err = binding.Validator.ValidateStruct(&profile)
	require.Error(t, err)
	assert.Equal(t, []string{"categories[1] is not a known service category"}, ParseErrors(err))
}

func TestParseErrorsPassesThroughOtherErrors(t *testing.T) {
	assert.Equal(t, []string{"boom"}, ParseErrors(errors.New("boom")))
}

func TestShutdownManagerRunsTasksInReverse(t *testing.T) {
	ctx, manager := NewShutdownManager(context.Background(), time.Second)

	var order []string
	manager.Register(func(context.Context) error {
		order = append(order, "database")
		return nil
	})
	manager.Register(func(context.Context) error {
		order = append(order, "http")
		return errors.New("already closed")
	})

	manager.Shutdown()

	assert.Equal(t, []string{"http", "database"}, order)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestShutdownManagerWaitReturnsOnContextCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, manager := NewShutdownManager(parent, time.Second)

	done := make(chan struct{})
	go func() {
		manager.Wait(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after context cancel")
	}
}
